package audio

import (
	"os/exec"
	"runtime"
	"slices"
)

// Command describes an external player that takes a file path argument
type Command struct {
	Name    string
	Path    string
	Args    []string
	Formats []string // Extensions handled; nil means any
}

// Supports reports whether the command can play files with extension ext
func (c *Command) Supports(ext string) bool {
	return c.Formats == nil || slices.Contains(c.Formats, ext)
}

// argv returns the arguments for playing file, on a fresh slice
func (c *Command) argv(file string) []string {
	args := make([]string, len(c.Args)+1)
	copy(args, c.Args)
	args[len(args)-1] = file
	return args
}

// candidates in priority order
var candidates = []Command{
	{Name: "afplay"},
	{Name: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{Name: "mpv", Args: []string{"--no-video", "--really-quiet"}},
	{Name: "paplay", Formats: []string{".wav", ".flac", ".ogg", ".oga"}},
	{Name: "pw-play", Formats: []string{".wav", ".flac", ".ogg", ".oga"}},
	{Name: "play", Args: []string{"-q"}, Formats: []string{".wav", ".flac", ".ogg", ".oga", ".mp3"}},
	{Name: "aplay", Args: []string{"-q"}, Formats: []string{".wav"}},
}

// DetectCommands returns every available external player in priority order
func DetectCommands() ([]Command, error) {
	var found []Command
	for _, c := range candidates {
		if c.Name == "afplay" && runtime.GOOS != "darwin" {
			continue
		}
		path, err := exec.LookPath(c.Name)
		if err != nil {
			continue
		}
		c.Path = path
		found = append(found, c)
	}
	if len(found) == 0 {
		return nil, ErrNoAudioBackend
	}
	return found, nil
}
