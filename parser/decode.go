package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restspec/specerrors"
)

// document mirrors the on-disk layout of a specification document. The
// header/representation keys are accepted as aliases of headers/body.
type document struct {
	Name     string      `yaml:"name"`
	URL      string      `yaml:"url"`
	Request  requestDoc  `yaml:"request"`
	Response responseDoc `yaml:"response"`
}

type requestDoc struct {
	Method         string  `yaml:"method"`
	Headers        Headers `yaml:"headers"`
	Header         Headers `yaml:"header"`
	Body           *body   `yaml:"body"`
	Representation *body   `yaml:"representation"`
}

type responseDoc struct {
	StatusCode     *int    `yaml:"statusCode"`
	Headers        Headers `yaml:"headers"`
	Header         Headers `yaml:"header"`
	Body           *body   `yaml:"body"`
	Representation *body   `yaml:"representation"`
}

var (
	topLevelKeys = []string{"name", "url", "request", "response"}
	requestKeys  = []string{"method", "headers", "header", "body", "representation"}
	responseKeys = []string{"statusCode", "headers", "header", "body", "representation"}
)

// body is a request or response body. A scalar is used verbatim; a mapping
// or sequence is rendered as compact JSON in document order.
type body struct {
	text string
}

func (b *body) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		b.text = node.Value
		return nil
	case yaml.MappingNode, yaml.SequenceNode:
		var buf bytes.Buffer
		if err := writeJSON(&buf, node); err != nil {
			return err
		}
		b.text = buf.String()
		return nil
	default:
		return fmt.Errorf("line %d: unsupported body value", node.Line)
	}
}

func (b *body) stringPtr() *string {
	if b == nil {
		return nil
	}
	s := b.text
	return &s
}

// decodeDocument turns raw document bytes into a Specification. Warnings
// for tolerated irregularities are appended to result.
func (p *Parser) decodeDocument(data []byte, source string, result *ParseResult) (*Specification, error) {
	format := detectFormatFromContent(data)
	if format == SourceFormatUnknown {
		return nil, &specerrors.ParseError{Path: source, Message: "document is empty"}
	}

	if format == SourceFormatJSON {
		raw, trailing, err := firstJSONValue(data)
		switch {
		case err != nil:
			// YAML flow mappings also start with '{'.
			var probe yaml.Node
			if yaml.Unmarshal(data, &probe) != nil {
				return nil, jsonParseError(source, data, err)
			}
			result.SourceFormat = SourceFormatYAML
		case trailing > 0:
			result.addWarning(p.log(), fmt.Sprintf("ignored %d bytes of trailing content after the JSON document", trailing), "source", source)
			data = raw
		default:
			data = raw
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &specerrors.ParseError{Path: source, Message: "failed to decode document", Cause: err}
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, &specerrors.ParseError{Path: source, Message: "document is empty"}
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, &specerrors.ParseError{
			Path:    source,
			Line:    node.Line,
			Column:  node.Column,
			Message: "document must be a mapping",
		}
	}

	for _, w := range unknownKeys(node, "", topLevelKeys) {
		result.addWarning(p.log(), w, "source", source)
	}
	if req := mappingValue(node, "request"); req != nil {
		for _, w := range unknownKeys(req, "request.", requestKeys) {
			result.addWarning(p.log(), w, "source", source)
		}
	}
	if resp := mappingValue(node, "response"); resp != nil {
		for _, w := range unknownKeys(resp, "response.", responseKeys) {
			result.addWarning(p.log(), w, "source", source)
		}
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, &specerrors.ParseError{Path: source, Message: "invalid document structure", Cause: err}
	}

	spec := &Specification{
		Name: doc.Name,
		URL:  doc.URL,
		Request: RequestSpec{
			Method:  doc.Request.Method,
			Headers: pickHeaders(p, result, source, "request", doc.Request.Headers, doc.Request.Header),
			Body:    pickBody(p, result, source, "request", doc.Request.Body, doc.Request.Representation),
		},
		Response: ResponseSpec{
			StatusCode: DefaultStatusCode,
			Headers:    pickHeaders(p, result, source, "response", doc.Response.Headers, doc.Response.Header),
			Body:       pickBody(p, result, source, "response", doc.Response.Body, doc.Response.Representation),
		},
	}
	if doc.Response.StatusCode != nil {
		spec.Response.StatusCode = *doc.Response.StatusCode
	}
	return spec, nil
}

func pickHeaders(p *Parser, result *ParseResult, source, section string, headers, alias Headers) Headers {
	if headers != nil && alias != nil {
		result.addWarning(p.log(), fmt.Sprintf("%s has both headers and header; using headers", section), "source", source)
	}
	if headers != nil {
		return headers
	}
	return alias
}

func pickBody(p *Parser, result *ParseResult, source, section string, b, alias *body) *string {
	if b != nil && alias != nil {
		result.addWarning(p.log(), fmt.Sprintf("%s has both body and representation; using body", section), "source", source)
	}
	if b != nil {
		return b.stringPtr()
	}
	return alias.stringPtr()
}

// firstJSONValue returns the first JSON value in data and the number of
// non-whitespace bytes that follow it.
func firstJSONValue(data []byte) (json.RawMessage, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, err
	}
	rest := bytes.TrimSpace(data[dec.InputOffset():])
	return raw, len(rest), nil
}

func jsonParseError(source string, data []byte, err error) error {
	pe := &specerrors.ParseError{Path: source, Message: "invalid JSON", Cause: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Line, pe.Column = lineColumn(data, syntaxErr.Offset)
	}
	return pe
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

func unknownKeys(node *yaml.Node, prefix string, allowed []string) []string {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	var warnings []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			warnings = append(warnings, fmt.Sprintf("line %d: unknown key %q ignored", node.Content[i].Line, prefix+key))
		}
	}
	return warnings
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

// scalarText returns the value of a scalar node, with null rendered empty.
func scalarText(node *yaml.Node) string {
	if isNull(node) {
		return ""
	}
	return node.Value
}

// writeJSON renders node as compact JSON, keeping mapping order.
func writeJSON(buf *bytes.Buffer, node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, node.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			buf.WriteString("null")
		case "!!bool":
			v, err := strconv.ParseBool(strings.ToLower(node.Value))
			if err != nil {
				return fmt.Errorf("line %d: invalid boolean %q", node.Line, node.Value)
			}
			buf.WriteString(strconv.FormatBool(v))
		case "!!int", "!!float":
			return writeJSONNumber(buf, node)
		default:
			return writeJSONString(buf, node.Value)
		}
	default:
		return fmt.Errorf("line %d: unsupported node in body", node.Line)
	}
	return nil
}

// writeJSONNumber keeps literals that are already JSON numbers and rewrites
// YAML-only forms such as 0x1F, 0o17 or 1_000 in decimal. Infinities and
// NaN have no JSON form.
func writeJSONNumber(buf *bytes.Buffer, node *yaml.Node) error {
	if json.Valid([]byte(node.Value)) {
		buf.WriteString(node.Value)
		return nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("line %d: invalid number %q: %w", node.Line, node.Value, err)
	}
	switch n := v.(type) {
	case int:
		buf.WriteString(strconv.Itoa(n))
	case int64:
		buf.WriteString(strconv.FormatInt(n, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(n, 10))
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return fmt.Errorf("line %d: %s has no JSON representation", node.Line, node.Value)
		}
		buf.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
	default:
		return fmt.Errorf("line %d: unsupported number %q", node.Line, node.Value)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
