package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/keysound/audio"
	"github.com/lixenwraith/keysound/config"
	"github.com/lixenwraith/keysound/logging"
	"github.com/lixenwraith/keysound/soundbank"
)

var (
	v       = config.New()
	cfg     *config.Config
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "keysound",
	Short: "Keyboard sounds for the terminal",
	Long: `keysound plays a short clip for every key typed, picked from a themed sound bank.
The bank is a JSON or YAML document fetched from a URL or read from disk.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "config file (default ./keysound.yaml)")
	f.StringP("bank", "b", soundbank.DefaultSource, "sound bank URL or path")
	f.StringP("theme", "t", "", "initial theme, overrides the bank default")
	f.String("backend", audio.BackendAuto, "audio backend: auto, beep, system, bell, none")
	f.Int("volume", audio.DefaultConfig().Volume, "volume 0-100")
	f.Bool("debug", false, "write logs to "+logging.DefaultDir+"/"+logging.FileName)

	_ = v.BindPFlag("bank", f.Lookup("bank"))
	_ = v.BindPFlag("theme", f.Lookup("theme"))
	_ = v.BindPFlag("audio.backend", f.Lookup("backend"))
	_ = v.BindPFlag("audio.volume", f.Lookup("volume"))
	_ = v.BindPFlag("log.debug", f.Lookup("debug"))
}

func setup(cmd *cobra.Command, _ []string) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	logFile, err = logging.Setup(cfg.Log)
	return err
}

func teardown(_ *cobra.Command, _ []string) {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
