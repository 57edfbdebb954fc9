package extract

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/uimap/internal/classify"
	"github.com/jward/uimap/internal/metadata"
)

// reactExtractor handles React components in js/jsx/ts/tsx sources.
type reactExtractor struct{}

func init() { register(reactExtractor{}) }

func (reactExtractor) Framework() string { return "react" }

// significantTags is the allow-list of markup tags whose literal text is
// semantically meaningful enough to hand to the classifier.
var significantTags = map[string]bool{
	"a": true, "button": true, "label": true, "legend": true,
	"caption": true, "figcaption": true, "summary": true, "option": true,
	"th": true, "title": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Extract resolves the component name, merges props from prop descriptors,
// Props type declarations, and the first parameter's destructuring
// pattern, gathers classifier context, and infers user actions.
func (reactExtractor) Extract(src []byte, tree *sitter.Tree, relPath string) (*Result, error) {
	root := tree.RootNode()
	scan := scanTopLevel(root, src)

	// First rule to produce a non-empty name wins: default export, named
	// export, filename. An unresolvable name is not a failure.
	name := scan.defaultName
	if name == "" {
		name = scan.namedExport
	}
	if name == "" {
		name = nameFromFilename(relPath)
	}

	props := mergeProps(scan, name, src)
	ctx := gatherContext(root, src)

	meta := metadata.ComponentMetadata{
		Name:        name,
		FilePath:    relPath,
		Props:       props,
		Children:    []metadata.ComponentMetadata{},
		UserActions: inferActions(name, props),
	}
	return &Result{Metadata: meta, Context: ctx}, nil
}

// topLevelScan accumulates what one pass over the program's direct
// children yields.
type topLevelScan struct {
	defaultName  string
	namedExport  string
	descriptors  []metadata.PropDefinition // from a Comp.propTypes object
	typeProps    []metadata.PropDefinition // from a *Props interface/type
	functions    []*sitter.Node            // function-like nodes in source order
	functionName map[string]*sitter.Node
}

func scanTopLevel(root *sitter.Node, src []byte) *topLevelScan {
	scan := &topLevelScan{functionName: map[string]*sitter.Node{}}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "export_statement":
			scan.visitExport(child, src)
		case "function_declaration", "generator_function_declaration", "class_declaration":
			scan.recordFunction(child, src)
		case "lexical_declaration", "variable_declaration":
			scan.recordDeclarators(child, src)
		case "interface_declaration", "type_alias_declaration":
			scan.visitType(child, src)
		case "expression_statement":
			scan.visitExpression(child, src)
		}
	}
	return scan
}

func (s *topLevelScan) visitExport(node *sitter.Node, src []byte) {
	isDefault := false
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "default" {
			isDefault = true
			break
		}
	}

	decl := node.ChildByFieldName("declaration")
	if decl != nil {
		switch decl.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			name := s.recordFunction(decl, src)
			if isDefault && s.defaultName == "" {
				s.defaultName = name
			} else if !isDefault && s.namedExport == "" {
				s.namedExport = name
			}
		case "lexical_declaration", "variable_declaration":
			name := s.recordDeclarators(decl, src)
			if !isDefault && s.namedExport == "" {
				s.namedExport = name
			}
		case "interface_declaration", "type_alias_declaration":
			s.visitType(decl, src)
		}
		return
	}

	if !isDefault {
		return
	}
	// export default <expression>: newer grammars expose a value field,
	// older ones leave the expression as a bare named child.
	value := node.ChildByFieldName("value")
	if value == nil {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			if c.Type() == "identifier" || isFunctionLike(c.Type()) {
				value = c
				break
			}
		}
	}
	if value == nil {
		return
	}
	switch {
	case value.Type() == "identifier":
		if s.defaultName == "" {
			s.defaultName = value.Content(src)
		}
	case isFunctionLike(value.Type()):
		s.functions = append(s.functions, value)
		if nameNode := value.ChildByFieldName("name"); nameNode != nil && s.defaultName == "" {
			s.defaultName = nameNode.Content(src)
			s.functionName[s.defaultName] = value
		}
	}
}

func isFunctionLike(kind string) bool {
	switch kind {
	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "arrow_function", "class_declaration", "class":
		return true
	}
	return false
}

// recordFunction registers a function or class declaration and returns its
// name, or "" when anonymous.
func (s *topLevelScan) recordFunction(node *sitter.Node, src []byte) string {
	s.functions = append(s.functions, node)
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	name := nameNode.Content(src)
	s.functionName[name] = node
	return name
}

// recordDeclarators registers `const Foo = () => ...` style declarations
// and returns the first declarator name bound to a function value.
func (s *topLevelScan) recordDeclarators(node *sitter.Node, src []byte) string {
	first := ""
	for i := 0; i < int(node.NamedChildCount()); i++ {
		declarator := node.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		value := declarator.ChildByFieldName("value")
		if value == nil || !isFunctionLike(value.Type()) {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(src)
		s.functions = append(s.functions, value)
		s.functionName[name] = value
		if first == "" {
			first = name
		}
	}
	return first
}

// visitType collects props from an interface or type alias whose name
// contains "Props".
func (s *topLevelScan) visitType(node *sitter.Node, src []byte) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || !strings.Contains(nameNode.Content(src), "Props") {
		return
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		body = node.ChildByFieldName("value")
	}
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		sig := body.NamedChild(i)
		if sig.Type() != "property_signature" {
			continue
		}
		propName := sig.ChildByFieldName("name")
		if propName == nil {
			continue
		}
		optional := false
		for j := 0; j < int(sig.ChildCount()); j++ {
			if sig.Child(j).Type() == "?" {
				optional = true
				break
			}
		}
		s.typeProps = append(s.typeProps, metadata.PropDefinition{
			Name:     propName.Content(src),
			Type:     tsPropType(sig.ChildByFieldName("type"), src),
			Required: !optional,
		})
	}
}

// visitExpression collects props from a `Comp.propTypes = {...}` static
// descriptor object.
func (s *topLevelScan) visitExpression(node *sitter.Node, src []byte) {
	assign := node.NamedChild(0)
	if assign == nil || assign.Type() != "assignment_expression" {
		return
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "member_expression" {
		return
	}
	prop := left.ChildByFieldName("property")
	if prop == nil || prop.Content(src) != "propTypes" {
		return
	}
	right := assign.ChildByFieldName("right")
	if right == nil || right.Type() != "object" {
		return
	}
	for i := 0; i < int(right.NamedChildCount()); i++ {
		pair := right.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		typ, required := descriptorType(value.Content(src))
		s.descriptors = append(s.descriptors, metadata.PropDefinition{
			Name:     strings.Trim(key.Content(src), `"'`),
			Type:     typ,
			Required: required,
		})
	}
}

// descriptorType derives (type, required) from a prop-descriptor
// expression such as "PropTypes.string.isRequired".
func descriptorType(expr string) (string, bool) {
	required := strings.HasSuffix(expr, ".isRequired")
	expr = strings.TrimSuffix(expr, ".isRequired")
	if i := strings.Index(expr, "."); i >= 0 {
		expr = expr[i+1:]
	}
	if i := strings.IndexAny(expr, "(."); i >= 0 {
		expr = expr[:i]
	}
	switch expr {
	case "string":
		return "string", required
	case "number":
		return "number", required
	case "bool":
		return "boolean", required
	case "func":
		return "function", required
	case "array", "arrayOf":
		return "array", required
	case "object", "shape", "exact":
		return "object", required
	default:
		return "any", required
	}
}

// tsPropType maps a type annotation to the small fixed set of prop types,
// defaulting to "any" for everything it cannot name.
func tsPropType(annotation *sitter.Node, src []byte) string {
	if annotation == nil {
		return "any"
	}
	typeNode := annotation.NamedChild(0)
	if typeNode == nil {
		return "any"
	}
	switch typeNode.Type() {
	case "predefined_type":
		switch typeNode.Content(src) {
		case "string", "number", "boolean", "object":
			return typeNode.Content(src)
		}
		return "any"
	case "array_type":
		return "array"
	case "function_type":
		return "function"
	case "object_type":
		return "object"
	case "literal_type":
		content := typeNode.Content(src)
		if strings.HasPrefix(content, `"`) || strings.HasPrefix(content, "'") {
			return "string"
		}
		return "any"
	default:
		return "any"
	}
}

// mergeProps combines the three prop sources without duplicate names:
// static descriptors first, then Props type members, then destructured
// parameter names as untyped optional fill-ins.
func mergeProps(scan *topLevelScan, componentName string, src []byte) []metadata.PropDefinition {
	merged := []metadata.PropDefinition{}
	seen := map[string]bool{}
	add := func(p metadata.PropDefinition) {
		if p.Name == "" || seen[p.Name] {
			return
		}
		seen[p.Name] = true
		merged = append(merged, p)
	}
	for _, p := range scan.descriptors {
		add(p)
	}
	for _, p := range scan.typeProps {
		add(p)
	}
	for _, p := range destructuredProps(scan.componentFunction(componentName), src) {
		add(p)
	}
	return merged
}

// componentFunction locates the function backing the resolved component
// name, falling back to the first function-like declaration in the file.
func (s *topLevelScan) componentFunction(name string) *sitter.Node {
	if fn, ok := s.functionName[name]; ok {
		return fn
	}
	if len(s.functions) > 0 {
		return s.functions[0]
	}
	return nil
}

// destructuredProps reads the object pattern of the function's first
// parameter. These carry no type information: "any", not required.
func destructuredProps(fn *sitter.Node, src []byte) []metadata.PropDefinition {
	pattern := firstParamPattern(fn)
	if pattern == nil {
		return nil
	}
	var props []metadata.PropDefinition
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		entry := pattern.NamedChild(i)
		switch entry.Type() {
		case "shorthand_property_identifier_pattern":
			props = append(props, metadata.PropDefinition{
				Name: entry.Content(src), Type: "any",
			})
		case "pair_pattern":
			if key := entry.ChildByFieldName("key"); key != nil {
				props = append(props, metadata.PropDefinition{
					Name: key.Content(src), Type: "any",
				})
			}
		case "object_assignment_pattern":
			left := entry.ChildByFieldName("left")
			if left == nil {
				continue
			}
			p := metadata.PropDefinition{Name: left.Content(src), Type: "any"}
			if right := entry.ChildByFieldName("right"); right != nil {
				p.Default = right.Content(src)
			}
			props = append(props, p)
		}
	}
	return props
}

func firstParamPattern(fn *sitter.Node) *sitter.Node {
	if fn == nil {
		return nil
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	first := params.NamedChild(0)
	if first == nil {
		return nil
	}
	switch first.Type() {
	case "object_pattern":
		return first
	case "required_parameter", "optional_parameter":
		// TypeScript wraps the pattern and its annotation.
		if pattern := first.ChildByFieldName("pattern"); pattern != nil && pattern.Type() == "object_pattern" {
			return pattern
		}
	}
	return nil
}

// gatherContext walks the whole tree collecting the classifier's inputs:
// literal text inside significant tags, comments, import specifiers, and
// the distinct lowercase markup tags used.
func gatherContext(root *sitter.Node, src []byte) classify.Context {
	ctx := classify.Context{}
	tags := map[string]bool{}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "comment":
			if text := cleanComment(n.Content(src)); text != "" {
				ctx.Comments = append(ctx.Comments, text)
			}
		case "import_statement":
			if source := n.ChildByFieldName("source"); source != nil {
				ctx.Imports = append(ctx.Imports, strings.Trim(source.Content(src), `"'`))
			}
		case "jsx_element":
			if opening := n.NamedChild(0); opening != nil && opening.Type() == "jsx_opening_element" {
				tag := jsxTagName(opening, src)
				recordTag(tag, tags)
				if significantTags[strings.ToLower(tag)] {
					ctx.RenderedText = append(ctx.RenderedText, jsxText(n, src)...)
				}
			}
		case "jsx_self_closing_element":
			recordTag(jsxTagName(n, src), tags)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	for tag := range tags {
		ctx.MarkupTags = append(ctx.MarkupTags, tag)
	}
	sort.Strings(ctx.MarkupTags)
	return ctx
}

func jsxTagName(el *sitter.Node, src []byte) string {
	if name := el.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return ""
}

// recordTag keeps lowercase (non-component) tag names only.
func recordTag(tag string, tags map[string]bool) {
	if tag == "" {
		return
	}
	if r := tag[0]; r < 'a' || r > 'z' {
		return
	}
	tags[strings.ToLower(tag)] = true
}

// jsxText returns the trimmed literal text of the element's direct
// children.
func jsxText(el *sitter.Node, src []byte) []string {
	var out []string
	for i := 0; i < int(el.NamedChildCount()); i++ {
		child := el.NamedChild(i)
		if child.Type() != "jsx_text" {
			continue
		}
		if text := strings.TrimSpace(child.Content(src)); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func cleanComment(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}
