package syntax

// Token is one lexical token. Text is a subslice of the original source, so
// concatenating the text of every token in scan order reproduces the input
// byte-for-byte. The lexer never copies source bytes.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

// Diagnostic is a lexical or parse complaint tied to an exact byte range of
// the source. Rendering is left to consumers.
type Diagnostic struct {
	Message string
	Span    Span
}
