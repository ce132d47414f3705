package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
)

// DefaultPath is the project config looked up when --config is not given.
const DefaultPath = "helper.cue"

const CurrentConfigVersion = "1"

var SupportedConfigVersions = []string{CurrentConfigVersion}

func IsSupportedConfigVersion(v string) bool {
	for _, s := range SupportedConfigVersions {
		if v == s {
			return true
		}
	}
	return false
}

func SupportedConfigVersionsCSV() string {
	return strings.Join(SupportedConfigVersions, ", ")
}

// Config is the project configuration of the helper tool.
type Config struct {
	ConfigVersion string
	Path          string
	Framework     Framework
	Storage       Storage
	Commands      Commands
	UI            UI
	Lua           LuaSandbox
}

// Framework describes how framework maintenance commands are invoked, for
// example `php artisan cache:clear`.
type Framework struct {
	Program          string
	Args             []string
	WorkingDir       string
	EnvFile          string
	TimeoutMs        int
	TermGraceMs      int
	KillProcessGroup bool
}

// Storage locates the application storage directory.
type Storage struct {
	Root string
	// Keep lists gitignore-style patterns for files clear must never touch.
	Keep []string
}

// Commands locates custom command definitions.
type Commands struct {
	Dir string
}

// UI holds output preferences.
type UI struct {
	Progress bool
	Color    bool
}

// LuaSandbox bounds custom command conditions.
type LuaSandbox struct {
	TimeoutMs        int
	InstructionLimit int
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Framework: Framework{
			Program:          "php",
			Args:             []string{"artisan"},
			WorkingDir:       ".",
			EnvFile:          ".env",
			TimeoutMs:        10 * 60 * 1000,
			TermGraceMs:      2000,
			KillProcessGroup: true,
		},
		Storage: Storage{
			Root: "storage",
			Keep: []string{".gitignore"},
		},
		Commands: Commands{Dir: ".helper/commands"},
		UI:       UI{Progress: true, Color: true},
		Lua:      LuaSandbox{TimeoutMs: 200, InstructionLimit: 100000},
	}
}

// Load reads the config at path. An empty path falls back to DefaultPath
// and, when that file does not exist either, to Default().
func Load(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		path = DefaultPath
	}
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return Config{}, err
	}
	cfg := Default()
	cfg.Path = path
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&cfg.ConfigVersion); err != nil {
		return Config{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !IsSupportedConfigVersion(cfg.ConfigVersion) {
		return Config{}, fmt.Errorf("unsupported configVersion: %q (supported: %s)", cfg.ConfigVersion, SupportedConfigVersionsCSV())
	}
	if err := parseFrameworkSection(v, &cfg.Framework); err != nil {
		return Config{}, err
	}
	if err := parseStorageSection(v, &cfg.Storage); err != nil {
		return Config{}, err
	}
	if err := parseCommandsSection(v, &cfg.Commands); err != nil {
		return Config{}, err
	}
	if err := parseUISection(v, &cfg.UI); err != nil {
		return Config{}, err
	}
	if err := parseLuaSandboxSection(v, &cfg.Lua); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseFrameworkSection(v cue.Value, f *Framework) error {
	fv := v.LookupPath(cue.ParsePath("framework"))
	if !fv.Exists() {
		return nil
	}
	if err := decodeString(fv, "framework", "program", &f.Program); err != nil {
		return err
	}
	if err := decodeStringList(fv, "framework", "args", &f.Args); err != nil {
		return err
	}
	if err := decodeString(fv, "framework", "workingDir", &f.WorkingDir); err != nil {
		return err
	}
	if err := decodeString(fv, "framework", "envFile", &f.EnvFile); err != nil {
		return err
	}
	if err := decodeNonNegativeInt(fv, "framework", "timeoutMs", &f.TimeoutMs); err != nil {
		return err
	}
	if err := decodeNonNegativeInt(fv, "framework", "termGraceMs", &f.TermGraceMs); err != nil {
		return err
	}
	if err := decodeBool(fv, "framework", "killProcessGroup", &f.KillProcessGroup); err != nil {
		return err
	}
	if f.Program == "" {
		return errors.New("invalid framework.program: must not be empty")
	}
	return nil
}

func parseStorageSection(v cue.Value, s *Storage) error {
	sv := v.LookupPath(cue.ParsePath("storage"))
	if !sv.Exists() {
		return nil
	}
	if err := decodeString(sv, "storage", "root", &s.Root); err != nil {
		return err
	}
	return decodeStringList(sv, "storage", "keep", &s.Keep)
}

func parseCommandsSection(v cue.Value, c *Commands) error {
	cv := v.LookupPath(cue.ParsePath("commands"))
	if !cv.Exists() {
		return nil
	}
	return decodeString(cv, "commands", "dir", &c.Dir)
}

func parseUISection(v cue.Value, u *UI) error {
	uv := v.LookupPath(cue.ParsePath("ui"))
	if !uv.Exists() {
		return nil
	}
	if err := decodeBool(uv, "ui", "progress", &u.Progress); err != nil {
		return err
	}
	return decodeBool(uv, "ui", "color", &u.Color)
}

func parseLuaSandboxSection(v cue.Value, l *LuaSandbox) error {
	lv := v.LookupPath(cue.ParsePath("lua"))
	if !lv.Exists() {
		return nil
	}
	if err := decodeNonNegativeInt(lv, "lua", "timeoutMs", &l.TimeoutMs); err != nil {
		return err
	}
	return decodeNonNegativeInt(lv, "lua", "instructionLimit", &l.InstructionLimit)
}
