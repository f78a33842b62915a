package imports

// CSharpQueries matches using directives. The directive node is captured whole;
// alias, static and global forms are told apart by walking its children.
const CSharpQueries = `
(using_directive) @using.definition
`
