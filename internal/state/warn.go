/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package state

import "github.com/go-logr/logr"

// Prompter presents a message to the user and returns the selected option.
// The editor host supplies a real implementation; tests supply a fake.
type Prompter interface {
	Ask(message string, options ...string) (string, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(message string, options ...string) (string, error)

func (f PrompterFunc) Ask(message string, options ...string) (string, error) {
	return f(message, options...)
}

const (
	ResponseOK            = "OK"
	ResponseDontShowAgain = "Don't Show Again"
)

// Warner shows dismissible warnings identified by a stable key. A warning
// whose key was previously dismissed with "Don't Show Again" is suppressed
// in all future sessions, including after restart.
type Warner struct {
	store  *Store
	prompt Prompter
	log    logr.Logger
}

func NewWarner(store *Store, prompt Prompter, log logr.Logger) *Warner {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Warner{
		store:  store,
		prompt: prompt,
		log:    log,
	}
}

// ShowWarning presents message with "OK" and "Don't Show Again" choices,
// unless key has been suppressed. Choosing "Don't Show Again" persists the
// suppression under key. Prompt failures are logged, never propagated;
// warnings are informational only.
func (w *Warner) ShowWarning(key, message string) {
	if w.store.GetBool(key) {
		return
	}

	choice, err := w.prompt.Ask(message, ResponseOK, ResponseDontShowAgain)
	if err != nil {
		w.log.Error(err, "failed to show warning", "key", key)
		return
	}

	if choice == ResponseDontShowAgain {
		if err := w.store.SetBool(key, true); err != nil {
			w.log.Error(err, "failed to persist warning suppression", "key", key)
		}
	}
}
