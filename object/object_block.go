package object

// Block is a non-owning handle to a deferred code body, produced by the
// BLOCK opcode and consumed by CALL (spec.md §3, §4.2.1). It carries
// only the index into the program's block table -- the code itself
// lives in code.Program.Blocks and is never copied -- so Clone is a
// plain value copy.
type Block struct {
	Index int
}

// Type returns the type of this object.
func (b *Block) Type() Type { return BlockType }

// Clone returns b unchanged: a Block is just an index, there is nothing
// to own or alias.
func (b *Block) Clone() Value { return b }
