// Package hyprconf parses profile files into fully-qualified keyword entries.
//
// A profile is line-oriented. Each line, after trimming, is one of:
//
//	# comment
//	name {            opens a scope
//	}                 closes the innermost scope
//	key = value       an assignment; "# ..." after the value is dropped
//	#! key = ${VAR}   an assignment whose value is expanded (see package expand)
//
// Keys are qualified by the open scopes, innermost first, each followed by ":".
// So the assignment in
//
//	decoration {
//	  blur {
//	    size = 8
//	  }
//	}
//
// yields the entry "blur:decoration:size=8".
//
// Parsing is lenient. Lines without "=" are ignored and a stray "}" is a no-op.
// [WithStrict] reports such lines as [*LineError] values without changing the
// entries produced.
package hyprconf
