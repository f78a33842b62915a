package symbols

// CSharpQueries contains tree-sitter query patterns for C# declaration
// outlines.
//
// Each pattern captures:
//   - @<category>.name - The declared name
//   - @<category>.definition - The entire declaration (for location)
const CSharpQueries = `
; ============================================================================
; Types
; ============================================================================

(class_declaration
  name: (identifier) @class.name
) @class.definition

(struct_declaration
  name: (identifier) @struct.name
) @struct.definition

(interface_declaration
  name: (identifier) @interface.name
) @interface.definition

(record_declaration
  name: (identifier) @record.name
) @record.definition

(enum_declaration
  name: (identifier) @enum.name
) @enum.definition

(delegate_declaration
  name: (identifier) @delegate.name
) @delegate.definition

; ============================================================================
; Members
; ============================================================================

(method_declaration
  name: (identifier) @method.name
) @method.definition

(constructor_declaration
  name: (identifier) @constructor.name
) @constructor.definition

(property_declaration
  name: (identifier) @property.name
) @property.definition

; The anchor keeps an identifier initializer from matching as a second name.
(field_declaration
  (variable_declaration
    (variable_declarator . (identifier) @field.name))
) @field.definition

(event_field_declaration
  (variable_declaration
    (variable_declarator . (identifier) @event.name))
) @event.definition

; ============================================================================
; Namespaces
; ============================================================================

(namespace_declaration
  name: (_) @namespace.name
) @namespace.definition

(file_scoped_namespace_declaration
  name: (_) @namespace.name
) @namespace.definition
`
