package playerjs

// A scrambleOp is one step of the player's signature scramble routine,
// applied to the signature bytes in place.
type scrambleOp func([]byte) []byte

func spliceOp(pos int) scrambleOp {
	return func(sig []byte) []byte {
		if pos < 0 || pos > len(sig) {
			return sig
		}
		return sig[pos:]
	}
}

// swapHeadOp exchanges the first byte with the one at arg modulo length,
// mirroring the player's swap helper.
func swapHeadOp(arg int) scrambleOp {
	return func(sig []byte) []byte {
		if len(sig) == 0 {
			return sig
		}
		pos := arg % len(sig)
		sig[0], sig[pos] = sig[pos], sig[0]
		return sig
	}
}

func reverseOp(sig []byte) []byte {
	for l, r := 0, len(sig)-1; l < r; l, r = l+1, r-1 {
		sig[l], sig[r] = sig[r], sig[l]
	}
	return sig
}
