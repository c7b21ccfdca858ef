package domain

// Outcome is the result of one transcription attempt: either a transcript
// or a failure message, never both.
type Outcome struct {
	Transcript string
	Err        string
}

// Success wraps a transcript in a successful outcome.
func Success(transcript string) Outcome {
	return Outcome{Transcript: transcript}
}

// Failure wraps an error description in a failed outcome.
func Failure(message string) Outcome {
	return Outcome{Err: message}
}

// Failed reports whether the transcription attempt failed.
func (o Outcome) Failed() bool {
	return o.Err != ""
}

// Text returns the content to persist for this outcome: the transcript on
// success, the failure description otherwise.
func (o Outcome) Text() string {
	if o.Failed() {
		return o.Err
	}
	return o.Transcript
}

// TranscriptRecord pairs a source file's base name with its outcome. It is
// the unit handed to the result writer.
type TranscriptRecord struct {
	Name    string
	Outcome Outcome
}
