package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/smali"
)

// JSONEncoder writes one indented JSON document per call.
type JSONEncoder struct {
	enc *json.Encoder
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return &JSONEncoder{enc: enc}
}

type jsonClass struct {
	Name       string       `json:"name"`
	SimpleName string       `json:"simpleName"`
	Package    string       `json:"package"`
	SuperClass string       `json:"superClass,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`
	Visibility string       `json:"visibility"`
	Modifiers  []string     `json:"modifiers,omitempty"`
	Fields     []jsonField  `json:"fields,omitempty"`
	Methods    []jsonMethod `json:"methods,omitempty"`
}

type jsonField struct {
	Name       string   `json:"name"`
	Type       jsonType `json:"type"`
	Visibility string   `json:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

type jsonMethod struct {
	Name       string     `json:"name"`
	Descriptor string     `json:"descriptor"`
	ReturnType jsonType   `json:"returnType"`
	Parameters []jsonType `json:"parameters,omitempty"`
	Visibility string     `json:"visibility"`
	Modifiers  []string   `json:"modifiers,omitempty"`
}

type jsonType struct {
	Name       string `json:"name"`
	ArrayDepth int    `json:"arrayDepth,omitempty"`
}

type jsonChange struct {
	Orig any `json:"orig"`
	Cmp  any `json:"cmp"`
}

type jsonResult struct {
	Path      string    `json:"path"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Diff      *jsonDiff `json:"diff,omitempty"`
}

type jsonDiff struct {
	Class      *jsonChange      `json:"class,omitempty"`
	Access     *jsonChange      `json:"access,omitempty"`
	Abstract   *jsonChange      `json:"abstract,omitempty"`
	Super      *jsonChange      `json:"super,omitempty"`
	Interfaces []string         `json:"missingInterfaces,omitempty"`
	Fields     []jsonFieldDiff  `json:"fields,omitempty"`
	Methods    []jsonMethodDiff `json:"methods,omitempty"`
}

type jsonFieldDiff struct {
	Name     string      `json:"name"`
	NotFound bool        `json:"notFound,omitempty"`
	Type     *jsonChange `json:"type,omitempty"`
	Access   *jsonChange `json:"access,omitempty"`
	Static   *jsonChange `json:"static,omitempty"`
	Final    *jsonChange `json:"final,omitempty"`
}

type jsonMethodDiff struct {
	Method       jsonMethod   `json:"method"`
	NotFound     bool         `json:"notFound,omitempty"`
	ReturnType   *jsonChange  `json:"returnType,omitempty"`
	Access       *jsonChange  `json:"access,omitempty"`
	Static       *jsonChange  `json:"static,omitempty"`
	Final        *jsonChange  `json:"final,omitempty"`
	Alternatives []jsonMethod `json:"alternatives,omitempty"`
}

type jsonSummary struct {
	OK        int  `json:"ok"`
	Different int  `json:"different"`
	Failed    int  `json:"failed"`
	NotFound  int  `json:"notFound"`
	Clean     bool `json:"clean"`
}

func (e *JSONEncoder) EncodeClass(class *smali.Class) error {
	return e.enc.Encode(buildClass(class))
}

func (e *JSONEncoder) EncodeResult(r compare.Result) error {
	out := jsonResult{
		Path:      r.Path,
		Reference: r.Reference,
		Status:    r.Status.String(),
		Diff:      buildDiff(r.Diff),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return e.enc.Encode(out)
}

func (e *JSONEncoder) EncodeSummary(s compare.Summary) error {
	return e.enc.Encode(jsonSummary{
		OK:        s.OK,
		Different: s.Different,
		Failed:    s.Failed,
		NotFound:  s.NotFound,
		Clean:     s.Clean(),
	})
}

func buildClass(c *smali.Class) jsonClass {
	data := jsonClass{
		Name:       c.Path,
		SimpleName: c.SimpleName(),
		Package:    c.Package(),
		SuperClass: c.SuperPath,
		Interfaces: c.Interfaces,
		Visibility: string(c.Access),
		Modifiers:  classModifiers(c)[1:],
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:       f.Name,
			Type:       buildType(f.Type),
			Visibility: string(f.Access),
			Modifiers:  fieldModifiers(f),
		})
	}
	for _, m := range c.Methods {
		data.Methods = append(data.Methods, buildMethod(m))
	}
	return data
}

func buildType(t smali.Type) jsonType {
	depth := t.ArrayDepth
	t.ArrayDepth = 0
	return jsonType{Name: t.String(), ArrayDepth: depth}
}

func buildMethod(m smali.Method) jsonMethod {
	out := jsonMethod{
		Name:       m.Name,
		Descriptor: m.Descriptor(),
		ReturnType: buildType(m.ReturnType),
		Visibility: string(m.Access),
		Modifiers:  methodModifiers(m),
	}
	for _, p := range m.Params {
		out.Parameters = append(out.Parameters, buildType(p))
	}
	return out
}

func jsonChangeOf[T any](c *diff.Change[T]) *jsonChange {
	if c == nil {
		return nil
	}
	return &jsonChange{Orig: c.Orig, Cmp: c.Cmp}
}

func typeChange(c *diff.Change[smali.Type]) *jsonChange {
	if c == nil {
		return nil
	}
	return &jsonChange{Orig: c.Orig.String(), Cmp: c.Cmp.String()}
}

func buildDiff(d *diff.ClassDiff) *jsonDiff {
	if d == nil {
		return nil
	}
	out := &jsonDiff{
		Class:      jsonChangeOf(d.ClassPath),
		Access:     jsonChangeOf(d.Access),
		Abstract:   jsonChangeOf(d.IsAbstract),
		Super:      jsonChangeOf(d.SuperPath),
		Interfaces: d.Interfaces,
	}
	for _, f := range d.Fields {
		out.Fields = append(out.Fields, jsonFieldDiff{
			Name:     f.Name,
			NotFound: f.NotFound,
			Type:     typeChange(f.Type),
			Access:   jsonChangeOf(f.Access),
			Static:   jsonChangeOf(f.IsStatic),
			Final:    jsonChangeOf(f.IsFinal),
		})
	}
	for _, m := range d.Methods {
		md := jsonMethodDiff{
			Method:     buildMethod(m.Method),
			NotFound:   m.NotFound,
			ReturnType: typeChange(m.ReturnType),
			Access:     jsonChangeOf(m.Access),
			Static:     jsonChangeOf(m.IsStatic),
			Final:      jsonChangeOf(m.IsFinal),
		}
		for _, alt := range m.Alternatives {
			md.Alternatives = append(md.Alternatives, buildMethod(alt))
		}
		out.Methods = append(out.Methods, md)
	}
	return out
}
