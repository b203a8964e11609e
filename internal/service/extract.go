package service

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
)

// compiledExpr is a compiled JMESPath expression.
type compiledExpr interface {
	Search(data any) (any, error)
}

// Extractor reshapes backend payloads with per-resource JMESPath expressions,
// so envelopes like {"data": {"users": [...]}} map onto the typed records.
type Extractor struct {
	exprs map[dashboard.ResourceKind]compiledExpr
	src   map[dashboard.ResourceKind]string
}

// NewExtractor compiles every expression up front. Blank expressions are skipped.
func NewExtractor(exprs map[dashboard.ResourceKind]string) (*Extractor, error) {
	e := &Extractor{
		exprs: make(map[dashboard.ResourceKind]compiledExpr, len(exprs)),
		src:   make(map[dashboard.ResourceKind]string, len(exprs)),
	}
	for kind, raw := range exprs {
		expr := strings.TrimSpace(raw)
		if expr == "" {
			continue
		}
		compiled, err := jmespath.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile extract expression for %s: %w", kind, err)
		}
		e.exprs[kind] = compiled
		e.src[kind] = expr
	}
	return e, nil
}

// Expression returns the source expression configured for kind.
func (e *Extractor) Expression(kind dashboard.ResourceKind) (string, bool) {
	if e == nil {
		return "", false
	}
	s, ok := e.src[kind]
	return s, ok
}

// Apply returns raw unchanged when kind has no expression. A search that
// matches nothing is an error so the caller falls back.
func (e *Extractor) Apply(kind dashboard.ResourceKind, raw json.RawMessage) (json.RawMessage, error) {
	if e == nil {
		return raw, nil
	}
	expr, ok := e.exprs[kind]
	if !ok {
		return raw, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	result, err := expr.Search(data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", kind, err)
	}
	if result == nil {
		return nil, fmt.Errorf("extract %s: expression %q matched nothing", kind, e.src[kind])
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode extracted %s: %w", kind, err)
	}
	return out, nil
}
