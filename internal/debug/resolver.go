/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package debug

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/suzmue/vscode-go/internal/gomod"
	"github.com/suzmue/vscode-go/internal/state"
	"github.com/suzmue/vscode-go/internal/tools"
	"github.com/suzmue/vscode-go/pkg/osutil"
)

// ErrNoActiveFile indicates that there is nothing to debug: no configuration
// was supplied and no Go file is open in the active editor.
var ErrNoActiveFile = errors.New("no active Go file to debug")

// ActiveEditor reports the Go source file open in the active editor, if any.
type ActiveEditor interface {
	ActiveGoFile() (path string, ok bool)
}

// ActiveEditorFunc adapts a function to the ActiveEditor interface.
type ActiveEditorFunc func() (string, bool)

func (f ActiveEditorFunc) ActiveGoFile() (string, bool) {
	return f()
}

// Settings carries the workspace-level defaults from the extension's delve
// configuration block. Per-configuration values always win over these.
type Settings struct {
	// DlvLoadConfig controls how the backend loads variable values.
	DlvLoadConfig map[string]any

	// ShowGlobalVariables toggles the globals section of the variables view.
	ShowGlobalVariables *bool

	// UseAPIV1 forces the legacy backend API.
	UseAPIV1 bool
}

// ResolverConfig holds the collaborators a Resolver needs.
type ResolverConfig struct {
	// WorkspaceRoot is the root folder of the open workspace.
	WorkspaceRoot string

	// Settings are the workspace-level defaults.
	Settings Settings

	// Editor reports the active file. Required.
	Editor ActiveEditor

	// Finder locates the debugger executable. If nil, the conventional
	// PATH/GOBIN/GOPATH lookup is used.
	Finder tools.Finder

	// Warner shows dismissible one-time warnings. Required.
	Warner *state.Warner

	// Prompter is used for the install prompt when the debugger is missing.
	// Required.
	Prompter state.Prompter

	// Env supplies the ambient tool-execution environment. If nil, the
	// process environment is used.
	Env func() map[string]string

	// Logger for resolution diagnostics.
	Logger logr.Logger
}

// Resolver turns a possibly-partial user debug configuration into a fully
// populated one, ready for the debugger backend. Resolution runs once per
// debug-session start, in three strict phases: skeleton defaulting and
// field-level resolution in Resolve, then FinalizeSubstituted after the
// editor host has expanded its placeholder variables.
type Resolver struct {
	workspaceRoot string
	settings      Settings
	editor        ActiveEditor
	finder        tools.Finder
	warner        *state.Warner
	prompt        state.Prompter
	env           func() map[string]string
	log           logr.Logger
}

func NewResolver(config ResolverConfig) *Resolver {
	log := config.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	finder := config.Finder
	if finder == nil {
		finder = tools.NewPathFinder(nil)
	}

	env := config.Env
	if env == nil {
		env = osutil.EnvironMap
	}

	return &Resolver{
		workspaceRoot: config.WorkspaceRoot,
		settings:      config.Settings,
		editor:        config.Editor,
		finder:        finder,
		warner:        config.Warner,
		prompt:        config.Prompter,
		env:           env,
		log:           log,
	}
}

// Resolve runs skeleton defaulting and field-level resolution on userConfig
// and returns the resolved configuration. A nil configuration with a non-nil
// error means the session must not start: ErrNoActiveFile when there is
// nothing to debug, tools.ErrToolNotFound when the debugger executable is
// missing (the user has already been prompted to install it).
func (r *Resolver) Resolve(userConfig Configuration) (Configuration, error) {
	resolved := userConfig.Clone()

	// Phase 1: skeleton defaulting when no configuration was authored
	// (the user pressed "run" with no launch entry).
	if len(resolved) == 0 {
		skeleton, err := r.skeleton()
		if err != nil {
			return nil, err
		}
		resolved = skeleton
	}

	if resolved.String("type") == "" {
		resolved["type"] = DefaultAdapterType
	}

	// The backend translates between package paths and module paths using
	// this table.
	if r.workspaceRoot != "" {
		index, err := gomod.BuildIndex(r.workspaceRoot, r.log)
		if err != nil {
			r.log.Error(err, "failed to build module lookup table", "root", r.workspaceRoot)
		} else {
			resolved["packagePathToGoModPathMap"] = index
		}
	}

	// A per-configuration API override wins over the workspace default.
	useAPIV1 := r.settings.UseAPIV1
	if v, found := resolved.Bool("useApiV1"); found {
		useAPIV1 = v
	}
	if useAPIV1 {
		resolved["apiVersion"] = 1
	}

	if _, set := resolved["dlvLoadConfig"]; !set && r.settings.DlvLoadConfig != nil {
		resolved["dlvLoadConfig"] = r.settings.DlvLoadConfig
	}
	if _, set := resolved["showGlobalVariables"]; !set && r.settings.ShowGlobalVariables != nil {
		resolved["showGlobalVariables"] = *r.settings.ShowGlobalVariables
	}

	if resolved.String("request") == RequestAttach && resolved.String("cwd") == "" {
		resolved["cwd"] = r.workspaceRoot
	}
	if cwd := resolved.String("cwd"); cwd != "" {
		if expanded, err := homedir.Expand(cwd); err == nil {
			resolved["cwd"] = expanded
		}
	}

	r.stripConflictingGCFlags(resolved)

	dlvPath, err := r.finder.Find(tools.DelveTool)
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			r.promptInstall()
		}
		return nil, err
	}
	resolved["dlvToolPath"] = dlvPath

	if resolved.String("mode") == ModeAuto {
		mode := ModeDebug
		if file, ok := r.editor.ActiveGoFile(); ok && strings.HasSuffix(file, "_test.go") {
			mode = ModeTest
		}
		resolved["mode"] = mode
	}

	if resolved.String("request") == RequestLaunch && resolved.String("mode") == ModeRemote {
		r.warner.ShowWarning(WarnKeyLaunchRemote,
			`Request type "launch" with mode "remote" is deprecated, please use request type "attach" with mode "remote" instead.`)
	}
	if resolved.String("request") == RequestAttach && resolved.String("mode") == ModeRemote &&
		resolved.String("program") != "" {
		r.warner.ShowWarning(WarnKeyAttachRemoteProgram,
			`The "program" attribute has no effect with request "attach" and mode "remote"; the remote debugger determines what is being debugged.`)
	}

	return resolved, nil
}

// FinalizeSubstituted is the last resolution phase, run after the editor
// host has expanded placeholder variables (current file, workspace folder)
// in the configuration. It folds env-file contents and the inline env into
// a single env mapping layered over the ambient tool-execution environment,
// and clears envFile: the backend must never see it.
func (r *Resolver) FinalizeSubstituted(config Configuration) (Configuration, error) {
	resolved := config.Clone()

	merged, err := mergeEnv(r.env(), resolved.StringList("envFile"), resolved.StringMap("env"))
	if err != nil {
		return nil, err
	}

	resolved["env"] = merged
	delete(resolved, "envFile")

	return resolved, nil
}

// skeleton builds the minimal configuration used when none was authored.
func (r *Resolver) skeleton() (Configuration, error) {
	file, ok := r.editor.ActiveGoFile()
	if !ok {
		return nil, ErrNoActiveFile
	}

	return Configuration{
		"name":    "Launch",
		"type":    DefaultAdapterType,
		"request": RequestLaunch,
		"mode":    ModeAuto,
		"program": filepath.Dir(file),
	}, nil
}

// stripConflictingGCFlags removes user-supplied -gcflags from buildFlags and
// from GOFLAGS in the configuration env, warning once per field.
func (r *Resolver) stripConflictingGCFlags(resolved Configuration) {
	if buildFlags := resolved.String("buildFlags"); buildFlags != "" {
		if stripped, removed := removeGCFlags(buildFlags); removed {
			resolved["buildFlags"] = stripped
			r.warner.ShowWarning(WarnKeyGCFlagsInBuildFlags,
				"User-specified -gcflags in buildFlags are ignored while debugging: the debugger compiles the program with its own -gcflags.")
		}
	}

	env := resolved.StringMap("env")
	if goflags := env["GOFLAGS"]; goflags != "" {
		if stripped, removed := removeGCFlags(goflags); removed {
			env["GOFLAGS"] = stripped
			resolved["env"] = env
			r.warner.ShowWarning(WarnKeyGCFlagsInGoflags,
				"User-specified -gcflags in GOFLAGS are ignored while debugging: the debugger compiles the program with its own -gcflags.")
		}
	}
}

// promptInstall asks the user to install the missing debugger. Installation
// itself is handled by the tool-management layer; resolution always aborts.
func (r *Resolver) promptInstall() {
	choice, err := r.prompt.Ask(
		fmt.Sprintf("The debugger (%s) was not found. Install it to enable debugging.", tools.DelveTool),
		"Install", "Cancel")
	if err != nil {
		r.log.Error(err, "failed to show install prompt")
		return
	}
	r.log.Info("debugger missing", "tool", tools.DelveTool, "choice", choice)
}
