package contour

// edge names one side of a cell.
type edge uint8

const (
	edgeTop edge = iota
	edgeRight
	edgeBottom
	edgeLeft
)

func (e edge) String() string {
	switch e {
	case edgeTop:
		return "top"
	case edgeRight:
		return "right"
	case edgeBottom:
		return "bottom"
	default:
		return "left"
	}
}

// edgePair is one output segment, joining the crossings on two edges.
type edgePair [2]edge

// Classification bits: a corner's bit is set when its value is >= iso.
const (
	bitUL = 1 << iota
	bitUR
	bitLL
	bitLR
)

const (
	saddleURLL = bitUR | bitLL // 0b0110
	saddleULLR = bitUL | bitLR // 0b1001
)

// cases maps a cell classification to the segments it emits. The two
// saddle entries are nil here and resolved by saddle.
var cases = [16][]edgePair{
	0:                             nil,
	bitUL:                         {{edgeTop, edgeLeft}},
	bitUR:                         {{edgeTop, edgeRight}},
	bitUL | bitUR:                 {{edgeLeft, edgeRight}},
	bitLL:                         {{edgeLeft, edgeBottom}},
	bitUL | bitLL:                 {{edgeTop, edgeBottom}},
	saddleURLL:                    nil,
	bitUL | bitUR | bitLL:         {{edgeRight, edgeBottom}},
	bitLR:                         {{edgeRight, edgeBottom}},
	saddleULLR:                    nil,
	bitUR | bitLR:                 {{edgeTop, edgeBottom}},
	bitUL | bitUR | bitLR:         {{edgeLeft, edgeBottom}},
	bitLL | bitLR:                 {{edgeLeft, edgeRight}},
	bitUL | bitLL | bitLR:         {{edgeTop, edgeRight}},
	bitUR | bitLL | bitLR:         {{edgeTop, edgeLeft}},
	bitUL | bitUR | bitLL | bitLR: nil,
}

var (
	// isolate ul and lr
	cutULLR = []edgePair{{edgeTop, edgeLeft}, {edgeRight, edgeBottom}}
	// isolate ur and ll
	cutURLL = []edgePair{{edgeTop, edgeRight}, {edgeLeft, edgeBottom}}
)

// saddle resolves an ambiguous cell. When the center is above iso the high
// diagonal is connected through the center and the two low corners are cut
// off; otherwise the two high corners are. A center exactly at iso counts as
// above, matching the corner classification rule.
func saddle(sig uint8, centerAbove bool) []edgePair {
	if (sig == saddleURLL) == centerAbove {
		return cutULLR
	}
	return cutURLL
}
