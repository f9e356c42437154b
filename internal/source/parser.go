// Package source discovers, parses and imports TOML budget sheets.
package source

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseResult holds the output of parsing a single sheet.
type ParseResult struct {
	File    DiscoveredFile
	Sheet   RawSheet
	Unknown []string // keys present in the file that no field consumes
	Err     error
}

// ParseFile decodes a budget sheet. Keys the sheet format does not know
// are reported in Unknown rather than failing the parse.
func ParseFile(df DiscoveredFile) ParseResult {
	var sheet RawSheet
	md, err := toml.DecodeFile(df.Path, &sheet)
	if err != nil {
		return ParseResult{File: df, Err: fmt.Errorf("parsing %s: %w", df.Path, err)}
	}

	res := ParseResult{File: df, Sheet: sheet}
	for _, k := range md.Undecoded() {
		res.Unknown = append(res.Unknown, k.String())
	}

	for i, p := range sheet.Periods {
		if strings.TrimSpace(p.Key) == "" {
			res.Err = fmt.Errorf("parsing %s: period #%d has no key", df.Path, i+1)
			return res
		}
	}
	return res
}
