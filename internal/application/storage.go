package application

// Library is the file-system boundary of the transcription batch: listing
// and reading candidate audio files, and persisting one transcript document
// per source file.
type Library interface {
	ListSources(prefix string) ([]string, error)
	ReadSource(name string) ([]byte, error)
	WriteTranscript(name string, content string) error
}

// NoteLibrary is the file-system boundary of the polish stage: the raw
// transcript documents on one side, the polished notes on the other.
type NoteLibrary interface {
	ListTranscripts() ([]string, error)
	ReadTranscript(name string) (string, error)
	WriteNote(name string, content string) error
}
