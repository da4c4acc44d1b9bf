// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package lang provides text in alternative languages.
//
// The language precedence is the user's locales, as reported by the
// system, followed by Default.
package lang

import (
	"sort"
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/platinasystems/log"
	"golang.org/x/text/language"
)

const (
	EnUS = "en-US"
	RuRU = "ru-RU"
)

var Default = EnUS

var (
	once      sync.Once
	preferred []language.Tag
)

// Preferred returns the user's languages, most preferred first.
func Preferred() []language.Tag {
	once.Do(func() {
		locales, err := locale.GetLocales()
		if err != nil {
			log.Print("daemon", "warn", "locale: ", err)
		}
		for _, s := range locales {
			if tag, err := language.Parse(s); err == nil {
				preferred = append(preferred, tag)
			}
		}
	})
	return preferred
}

type Alt map[string]string

// If available, this returns text in the prefered language.
func (m Alt) String() string { return m.For(Preferred()...) }

// For returns the text that best matches one of the given languages; or the
// Default text if none match.
func (m Alt) For(langs ...language.Tag) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != Default {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, found := m[Default]; found {
		keys = append([]string{Default}, keys...)
	}
	var (
		tags      []language.Tag
		supported []string
	)
	for _, k := range keys {
		if tag, err := language.Parse(k); err == nil {
			tags = append(tags, tag)
			supported = append(supported, k)
		}
	}
	if len(tags) == 0 {
		return ""
	}
	_, i, _ := language.NewMatcher(tags).Match(langs...)
	return m[supported[i]]
}
