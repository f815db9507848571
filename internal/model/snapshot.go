package model

// BlockName names one of the two observed data blocks
type BlockName string

const (
	BlockProps BlockName = "props"
	BlockState BlockName = "state"
)

// Blocks lists the observed blocks in the order they are compared
var Blocks = []BlockName{BlockProps, BlockState}

// Record is the data observed from a tracked instance on one invocation.
// It is read-only to the diff engine.
type Record struct {
	Props *Block `json:"props"`
	State *Block `json:"state"`
}

// NewRecord creates a record from the two blocks; nil blocks become empty
func NewRecord(props, state *Block) Record {
	if props == nil {
		props = NewBlock()
	}
	if state == nil {
		state = NewBlock()
	}
	return Record{Props: props, State: state}
}

// Block returns the named block
func (r Record) Block(name BlockName) *Block {
	switch name {
	case BlockProps:
		return r.Props
	case BlockState:
		return r.State
	}
	return nil
}

// Snapshot is the last observed data of a tracked instance and the baseline
// for the next diff. It also carries the instance's render counter.
type Snapshot struct {
	Props *Block
	State *Block

	renderIndex int
	baseline    string
	seen        bool
}

// NewSnapshot creates an empty snapshot with its render counter unset
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Props: NewBlock(),
		State: NewBlock(),
	}
}

// Block returns the named block of the snapshot
func (s *Snapshot) Block(name BlockName) *Block {
	switch name {
	case BlockProps:
		return s.Props
	case BlockState:
		return s.State
	}
	return nil
}

// Empty reports whether nothing has been recorded yet
func (s *Snapshot) Empty() bool {
	return s.Props.Len() == 0 && s.State.Len() == 0
}

// Seen reports whether a first observation has been made
func (s *Snapshot) Seen() bool {
	return s.seen
}

// MarkSeen records that the first observation has been made
func (s *Snapshot) MarkSeen() {
	s.seen = true
}

// Record returns the snapshot's blocks as a record. The blocks are shared.
func (s *Snapshot) Record() Record {
	return Record{Props: s.Props, State: s.State}
}

// NextToken advances the render counter and returns it. The first token is 1.
func (s *Snapshot) NextToken() int {
	s.renderIndex++
	return s.renderIndex
}

// RenderIndex returns the last token handed out, 0 if none
func (s *Snapshot) RenderIndex() int {
	return s.renderIndex
}

// Baseline returns the frozen serialization of the snapshot taken at the end
// of the previous diff, or "" when none was taken
func (s *Snapshot) Baseline() string {
	return s.baseline
}

// SetBaseline replaces the frozen serialization
func (s *Snapshot) SetBaseline(serialized string) {
	s.baseline = serialized
}

// SourceHint is a location supplied directly by the host instead of a stack frame
type SourceHint struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

// Invocation is everything the host hands over for one invocation of a
// tracked instance
type Invocation struct {
	Instance  string      `json:"instance"`
	Component string      `json:"component"`
	Details   string      `json:"details,omitempty"`
	Frame     string      `json:"frame,omitempty"`
	Source    *SourceHint `json:"source,omitempty"`
	Observed  Record      `json:"observed"`
}
