package builder

// Constructor names, used to prefix errors.
const (
	MethodChain     = "Chain"
	MethodLattice   = "Lattice"
	MethodRandomFSM = "RandomFSM"
	MethodGrammar   = "Grammar"
	MethodRandomCFG = "RandomCFG"
)

// Minimum sizes.
const (
	MinChainWords   = 0
	MinLatticeLen   = 1
	MinLatticeWidth = 1
	MinRandomStates = 1
	MinNonterminals = 1
)

// Probability bounds.
const (
	MinProbability = 0.0
	MaxProbability = 1.0
)

// StartSymbol is the nonterminal RandomCFG uses as its goal.
const StartSymbol = "S"
