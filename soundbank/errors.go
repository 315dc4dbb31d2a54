package soundbank

import "errors"

// Kind tags a sound bank error
// Matched with errors.Is against the Err* sentinels, never by message
type Kind uint8

const (
	KindNone Kind = iota

	// Document shape, reported in validation order
	KindInvalidPath
	KindInvalidDefaultTheme
	KindInvalidPreferredCategory
	KindInvalidAssetList

	// Load boundary
	KindInvalidAudiosJSON
	KindAudiosNoFetched

	// Engine usage
	KindNotLoaded
	KindInvalidTheme
	KindInvalidCategory
	KindInvalidSource

	// Resolution and playback
	KindFilePathInvalid
	KindAudioPlaybackError

	kindCount
)

var kindMessages = [kindCount]string{
	KindNone:                     "no error",
	KindInvalidPath:              "invalid path",
	KindInvalidDefaultTheme:      "invalid default theme",
	KindInvalidPreferredCategory: "invalid preferred category",
	KindInvalidAssetList:         "invalid asset list",
	KindInvalidAudiosJSON:        "invalid audios document",
	KindAudiosNoFetched:          "audios not fetched",
	KindNotLoaded:                "audios were not loaded",
	KindInvalidTheme:             "invalid theme",
	KindInvalidCategory:          "invalid category",
	KindInvalidSource:            "invalid audios source",
	KindFilePathInvalid:          "invalid file path",
	KindAudioPlaybackError:       "audio playback error",
}

// String returns the canonical message for the kind
func (k Kind) String() string {
	if k >= kindCount {
		return "unknown error"
	}
	return kindMessages[k]
}

// IsValidation reports whether the kind is produced by document validation
func (k Kind) IsValidation() bool {
	return k >= KindInvalidPath && k <= KindInvalidAssetList
}

// Error carries a kind, optional detail and an optional nested cause
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrInvalidPath              = &Error{Kind: KindInvalidPath}
	ErrInvalidDefaultTheme      = &Error{Kind: KindInvalidDefaultTheme}
	ErrInvalidPreferredCategory = &Error{Kind: KindInvalidPreferredCategory}
	ErrInvalidAssetList         = &Error{Kind: KindInvalidAssetList}
	ErrInvalidAudiosJSON        = &Error{Kind: KindInvalidAudiosJSON}
	ErrAudiosNoFetched          = &Error{Kind: KindAudiosNoFetched}
	ErrNotLoaded                = &Error{Kind: KindNotLoaded}
	ErrInvalidTheme             = &Error{Kind: KindInvalidTheme}
	ErrInvalidCategory          = &Error{Kind: KindInvalidCategory}
	ErrInvalidSource            = &Error{Kind: KindInvalidSource}
	ErrFilePathInvalid          = &Error{Kind: KindFilePathInvalid}
	ErrAudioPlaybackError       = &Error{Kind: KindAudioPlaybackError}
)

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func wrapError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// PlaybackError wraps a playback failure for the asset at path
func PlaybackError(path string, err error) error {
	return &Error{Kind: KindAudioPlaybackError, Detail: path, Err: err}
}

// KindOf extracts the kind of the outermost *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
