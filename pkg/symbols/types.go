package symbols

import "strings"

// splitType splits a rendered type into its name and top-level type
// arguments: "Dictionary<string,List<int>>" yields "Dictionary" and
// ["string", "List<int>"].
func splitType(display string) (string, []string) {
	open := strings.IndexByte(display, '<')
	if open < 0 || !strings.HasSuffix(display, ">") {
		return display, nil
	}
	inner := display[open+1 : len(display)-1]
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	return display[:open], args
}

func stripTypeArgs(display string) string {
	name, _ := splitType(display)
	return name
}

func typeArgsOf(display string) string {
	if i := strings.IndexByte(display, '<'); i >= 0 {
		return display[i:]
	}
	return ""
}

// simpleName drops a namespace qualifier: "System.Collections.Generic.List"
// becomes "List".
func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

var sequenceTypes = map[string]bool{
	"IEnumerable":         true,
	"IAsyncEnumerable":    true,
	"ICollection":         true,
	"IList":               true,
	"IReadOnlyCollection": true,
	"IReadOnlyList":       true,
	"ISet":                true,
	"IQueryable":          true,
	"List":                true,
	"HashSet":             true,
	"SortedSet":           true,
	"LinkedList":          true,
	"Queue":               true,
	"Stack":               true,
	"ConcurrentBag":       true,
	"ConcurrentQueue":     true,
	"ImmutableArray":      true,
	"ImmutableList":       true,
	"Span":                true,
	"ReadOnlySpan":        true,
	"Memory":              true,
	"ReadOnlyMemory":      true,
}

var mapTypes = map[string]bool{
	"Dictionary":           true,
	"IDictionary":          true,
	"IReadOnlyDictionary":  true,
	"SortedDictionary":     true,
	"ConcurrentDictionary": true,
	"ImmutableDictionary":  true,
}

// elementType is the type a foreach or a query range variable takes when
// iterating a value of the given type.
func elementType(display string) string {
	display = strings.TrimSuffix(display, "?")
	if strings.HasSuffix(display, "]") {
		if i := strings.LastIndexByte(display, '['); i > 0 {
			return display[:i]
		}
	}
	if display == "string" {
		return "char"
	}
	name, args := splitType(display)
	switch {
	case len(args) == 1 && sequenceTypes[simpleName(name)]:
		return args[0]
	case len(args) == 2 && mapTypes[simpleName(name)]:
		return "KeyValuePair<" + args[0] + "," + args[1] + ">"
	}
	return ""
}

// indexedType is the type of target[i].
func indexedType(display string) string {
	name, args := splitType(strings.TrimSuffix(display, "?"))
	if len(args) == 2 && mapTypes[simpleName(name)] {
		return args[1]
	}
	return elementType(display)
}

// awaitedType is the result type of awaiting a value of the given type.
func awaitedType(display string) string {
	name, args := splitType(display)
	switch simpleName(name) {
	case "Task", "ValueTask":
		if len(args) == 1 {
			return args[0]
		}
		return "void"
	}
	return ""
}

// numericRank orders the predefined numeric types for binary operand
// promotion. Types below int promote to int.
var numericRank = map[string]int{
	"sbyte":   1,
	"byte":    1,
	"short":   1,
	"ushort":  1,
	"char":    1,
	"int":     2,
	"uint":    3,
	"nint":    3,
	"nuint":   3,
	"long":    4,
	"ulong":   5,
	"float":   6,
	"double":  7,
	"decimal": 8,
}

// promote returns the result type of an arithmetic operator over a and b.
func promote(a, b string) string {
	ra, oka := numericRank[a]
	rb, okb := numericRank[b]
	if !oka || !okb {
		return ""
	}
	hi, t := ra, a
	if rb > hi {
		hi, t = rb, b
	}
	if hi < numericRank["int"] {
		return "int"
	}
	return t
}

// binaryType returns the result type of a binary operator, or "" when it
// cannot be told from the operand types.
func binaryType(op, left, right string) string {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "is":
		return "bool"
	case "??":
		if left != "" {
			return strings.TrimSuffix(left, "?")
		}
		return right
	case "<<", ">>", ">>>":
		return promote(left, "int")
	case "&", "|", "^":
		if left == "bool" && right == "bool" {
			return "bool"
		}
		return promote(left, right)
	case "+":
		if left == "string" || right == "string" {
			return "string"
		}
	}
	if t := promote(left, right); t != "" {
		return t
	}
	if left != "" && left == right {
		return left
	}
	return ""
}

// unaryType returns the result type of a unary operator.
func unaryType(op, operand string) string {
	switch op {
	case "!":
		return "bool"
	case "-", "+", "~":
		if t := promote(operand, operand); t != "" {
			return t
		}
	case "&":
		if operand != "" {
			return operand + "*"
		}
		return ""
	case "*":
		return strings.TrimSuffix(operand, "*")
	}
	return operand
}

// wellKnownMembers types a few framework members commonly reached on
// predefined and collection types.
var wellKnownMembers = map[string]string{
	"string.Length":   "int",
	"string.Empty":    "string",
	"[].Length":       "int",
	"[].LongLength":   "long",
	"*.Count":         "int",
	"*.ToString()":    "string",
	"*.GetHashCode()": "int",
	"*.Equals()":      "bool",
	"*.GetType()":     "System.Type",
}

// wellKnown returns the type of a framework member on a value of type owner.
// Methods are looked up with a trailing "()".
func wellKnown(owner, member string) string {
	if strings.HasSuffix(owner, "]") {
		if t, ok := wellKnownMembers["[]."+member]; ok {
			return t
		}
	}
	if t, ok := wellKnownMembers[owner+"."+member]; ok {
		return t
	}
	if member == "Count" {
		name, args := splitType(owner)
		if len(args) == 0 || (!sequenceTypes[simpleName(name)] && !mapTypes[simpleName(name)]) {
			return ""
		}
	}
	return wellKnownMembers["*."+member]
}
