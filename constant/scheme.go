package constant

const (
	// SchemePrefix opens every handler URL the browser hands over.
	SchemePrefix = "mpv://play/"

	// SubtitleDelimiter separates the encoded media segment from an attached subtitle segment.
	SubtitleDelimiter = "/?subfile="
)
