/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package debug

import "strings"

// removeGCFlags strips -gcflags/--gcflags and its argument from a
// space-separated build flags string, reporting whether anything was
// removed. The debugger compiles the target with its own -gcflags='all=-N -l'
// to disable optimizations; a user-supplied value would override that and
// break breakpoints.
//
// The argument may be attached (-gcflags=...) or a separate token. An
// unquoted argument list extends over following single-dash tokens (as in
// `-gcflags=all=-N -l`) and stops at the next double-dash flag or at a
// positional argument; a quoted value is self-contained and ends the flag.
func removeGCFlags(flags string) (string, bool) {
	tokens := splitArgs(flags)
	kept := make([]string, 0, len(tokens))
	removed := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		name := strings.TrimPrefix(tok, "-")
		name = strings.TrimPrefix(name, "-")
		if name != "gcflags" && !strings.HasPrefix(name, "gcflags=") {
			kept = append(kept, tok)
			continue
		}

		removed = true
		value := strings.TrimPrefix(name, "gcflags")
		value = strings.TrimPrefix(value, "=")
		if name == "gcflags" && i+1 < len(tokens) {
			// Separate-argument form: the next token is the value.
			i++
			value = tokens[i]
		}
		if strings.ContainsAny(value, `'"`) {
			continue
		}
		// Swallow unquoted continuation of the argument list.
		for i+1 < len(tokens) &&
			strings.HasPrefix(tokens[i+1], "-") &&
			!strings.HasPrefix(tokens[i+1], "--") {
			i++
		}
	}

	return strings.Join(kept, " "), removed
}

// splitArgs splits a flag string on whitespace, keeping single- or
// double-quoted spans (including the quotes) inside one token.
func splitArgs(s string) []string {
	var args []string
	var cur strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			cur.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}

	return args
}
