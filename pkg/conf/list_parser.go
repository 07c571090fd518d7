package conf

import (
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

const stringListDelimiter = ","

// StringListVar is a custom kingpin parser which resolves flag's parameters which consists of
// string slice delimited by `stringListDelimiter`.
// When user would specify options: `--flag=A,B,C --flag=D` the flag value would be a slice with
// A,B,C,D items.
type StringListVar []string

// Set parsed the input string and append that as a slice. Implements kingpin.Value.
func (s *StringListVar) Set(value string) error {
	for _, item := range strings.Split(value, stringListDelimiter) {
		if item = strings.TrimSpace(item); item != "" {
			*s = append(*s, item)
		}
	}
	return nil
}

// String returns delimited items. Implements kingpin.Value.
func (s *StringListVar) String() string {
	return strings.Join(*s, stringListDelimiter)
}

// IsCumulative implements optional interface (kingpin.repeatableFlag) for flags that can be repeated.
func (s *StringListVar) IsCumulative() bool {
	return true
}

// StringList is a helper for defining kingpin flags.
func StringList(s kingpin.Settings) (target *[]string) {
	target = new([]string)
	s.SetValue((*StringListVar)(target))
	return
}
