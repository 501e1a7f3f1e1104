package commands

import (
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/erraggy/restspec/parser"
)

// regexList is a repeatable flag of regular expressions.
type regexList []*regexp.Regexp

func (l *regexList) String() string {
	patterns := make([]string, len(*l))
	for i, re := range *l {
		patterns[i] = re.String()
	}
	return strings.Join(patterns, ",")
}

func (l *regexList) Set(value string) error {
	re, err := regexp.Compile(value)
	if err != nil {
		return err
	}
	*l = append(*l, re)
	return nil
}

func (l regexList) anyMatch(s string) bool {
	for _, re := range l {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// nameFilters selects specifications by name.
type nameFilters struct {
	MustMatch    regexList
	MustNotMatch regexList
}

// match reports whether a specification named name should run: it must
// match one --run pattern, if any were given, and no --skip pattern.
func (f nameFilters) match(name string) bool {
	if len(f.MustMatch) > 0 && !f.MustMatch.anyMatch(name) {
		return false
	}
	return !f.MustNotMatch.anyMatch(name)
}

// apply returns a suite holding only the selected documents. Documents
// without a specification are kept so that their errors are reported.
func (f nameFilters) apply(suite *parser.Suite) *parser.Suite {
	if len(f.MustMatch) == 0 && len(f.MustNotMatch) == 0 {
		return suite
	}
	out := &parser.Suite{Name: suite.Name, Description: suite.Description}
	for _, r := range suite.Results {
		if r.Spec == nil || f.match(r.Spec.Name) {
			out.Results = append(out.Results, r)
		}
	}
	return out
}

// commandBuilder assembles a shell command line, quoting each argument.
type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// curlCommand returns a curl invocation that sends the request spec
// describes to target.
func curlCommand(target string, spec *parser.Specification) string {
	var b commandBuilder
	b.add("curl", "-i", "-X", spec.Request.Method)
	for _, h := range spec.Request.Headers {
		b.add("-H", h.Name+": "+h.Value)
	}
	if spec.Request.Body != nil {
		b.add("--data-raw", *spec.Request.Body)
	}
	b.add(strings.TrimSuffix(target, "/") + spec.URL)
	return b.String()
}
