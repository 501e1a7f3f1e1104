package parser

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/erraggy/restspec/specerrors"
)

// Suite is an ordered collection of parsed specifications, loaded from a
// directory tree or a txtar archive.
type Suite struct {
	// Name identifies the suite, usually the directory or archive path
	Name string
	// Description is the archive comment, if any
	Description string
	// Results holds one ParseResult per document, in load order
	Results []*ParseResult
}

// Len returns the number of documents in the suite.
func (s *Suite) Len() int {
	return len(s.Results)
}

// Specs returns the specifications of the suite in order.
func (s *Suite) Specs() []*Specification {
	specs := make([]*Specification, 0, len(s.Results))
	for _, r := range s.Results {
		if r.Spec != nil {
			specs = append(specs, r.Spec)
		}
	}
	return specs
}

// Errors returns every structure error in the suite, prefixed with the
// document it came from.
func (s *Suite) Errors() []error {
	var errs []error
	for _, r := range s.Results {
		for _, err := range r.Errors {
			errs = append(errs, fmt.Errorf("%s: %w", r.SourcePath, err))
		}
	}
	return errs
}

// Warnings returns every warning in the suite, prefixed with its document.
func (s *Suite) Warnings() []string {
	var warnings []string
	for _, r := range s.Results {
		for _, w := range r.Warnings {
			warnings = append(warnings, r.SourcePath+": "+w)
		}
	}
	return warnings
}

// ParseSuite loads a suite from path, which may be a directory, a txtar
// archive, or a single document.
func (p *Parser) ParseSuite(specPath string) (*Suite, error) {
	if isURL(specPath) {
		res, err := p.Parse(specPath)
		if err != nil {
			return nil, err
		}
		return &Suite{Name: specPath, Results: []*ParseResult{res}}, nil
	}

	info, err := os.Stat(specPath)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to load suite: %w", err)
	}
	switch {
	case info.IsDir():
		return p.ParseDir(specPath)
	case strings.EqualFold(filepath.Ext(specPath), ExtTxtar):
		data, err := p.readFile(specPath)
		if err != nil {
			return nil, err
		}
		return p.ParseArchive(data, specPath)
	default:
		res, err := p.Parse(specPath)
		if err != nil {
			return nil, err
		}
		return &Suite{Name: specPath, Results: []*ParseResult{res}}, nil
	}
}

// ParseDir loads every document and txtar archive under dir, recursively,
// in lexical order. Hidden files and directories are skipped.
func (p *Parser) ParseDir(dir string) (*Suite, error) {
	suite := &Suite{Name: dir}

	err := filepath.WalkDir(dir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filePath != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		switch {
		case strings.EqualFold(filepath.Ext(filePath), ExtTxtar):
			data, err := p.readFile(filePath)
			if err != nil {
				return err
			}
			archive, err := p.ParseArchive(data, filePath)
			if err != nil {
				return err
			}
			suite.Results = append(suite.Results, archive.Results...)
		case IsSpecFile(filePath):
			res, err := p.Parse(filePath)
			if err != nil {
				return err
			}
			suite.Results = append(suite.Results, res)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parser: failed to load suite from %s: %w", dir, err)
	}

	if len(suite.Results) == 0 {
		return nil, &specerrors.ParseError{Path: dir, Message: "no specification documents found"}
	}
	p.log().Debug("loaded suite", "dir", dir, "documents", len(suite.Results))
	return suite, nil
}

// ParseArchive loads a suite from txtar data. Each archive file with a
// .json, .yaml, or .yml name is one document; other files are skipped with
// a warning. The archive comment becomes the suite description.
func (p *Parser) ParseArchive(data []byte, name string) (*Suite, error) {
	archive := txtar.Parse(data)
	suite := &Suite{
		Name:        name,
		Description: strings.TrimSpace(string(archive.Comment)),
	}

	for _, f := range archive.Files {
		source := name + "/" + f.Name
		if !IsSpecFile(f.Name) {
			p.log().Warn("skipping archive member without a document extension", "archive", name, "file", f.Name)
			continue
		}
		base := path.Base(f.Name)
		res, err := p.parse(f.Data, source, strings.TrimSuffix(base, path.Ext(base)))
		if err != nil {
			return nil, err
		}
		res.SourcePath = source
		if format := detectFormatFromPath(f.Name); format != SourceFormatUnknown {
			res.SourceFormat = format
		}
		suite.Results = append(suite.Results, res)
	}

	if len(suite.Results) == 0 {
		return nil, &specerrors.ParseError{Path: name, Message: "archive contains no specification documents"}
	}
	p.log().Debug("loaded archive", "archive", name, "documents", len(suite.Results))
	return suite, nil
}

// FormatArchive renders specifications as a txtar archive with one JSON
// document per specification, named after the specification.
func FormatArchive(comment string, specs []*Specification) ([]byte, error) {
	archive := &txtar.Archive{Comment: []byte(comment)}
	if comment != "" && !strings.HasSuffix(comment, "\n") {
		archive.Comment = append(archive.Comment, '\n')
	}
	seen := make(map[string]int)
	for i, spec := range specs {
		data, err := EncodeJSON(spec)
		if err != nil {
			return nil, err
		}
		name := archiveName(spec.Name)
		if name == "" {
			name = fmt.Sprintf("spec-%d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		archive.Files = append(archive.Files, txtar.File{Name: name + ExtJSON, Data: data})
	}
	return txtar.Format(archive), nil
}

// archiveName reduces a specification name to a safe archive member name.
func archiveName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, name)
	return strings.Trim(mapped, "-.")
}
