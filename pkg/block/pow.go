package block

// Unbounded disables the attempt cap of Solve
const Unbounded uint64 = 0

// Source draws fresh nonces. *math/rand.Rand satisfies it.
type Source interface {
	Uint64() uint64
}

// SatisfiesDifficulty reports whether the first difficulty bits of h,
// most significant bit first, are all zero.
func SatisfiesDifficulty(h []byte, difficulty uint32) bool {
	if difficulty == 0 {
		return true
	}

	fullBytes := int(difficulty / 8)
	remainingBits := difficulty % 8

	for i := 0; i < fullBytes; i++ {
		if i >= len(h) || h[i] != 0 {
			return false
		}
	}

	if remainingBits > 0 {
		if fullBytes >= len(h) {
			return false
		}

		mask := byte(0xFF << (8 - remainingBits))
		if h[fullBytes]&mask != 0 {
			return false
		}
	}

	return true
}

// Solve draws random nonces from src until the block hash satisfies
// difficulty, leaving the winning nonce in b. Nonces are never counted
// upwards; every attempt is a fresh draw. With maxAttempts set to
// Unbounded the search only returns on success.
func (b *Block) Solve(src Source, difficulty uint32, maxAttempts uint64) (Hash, bool) {
	for i := uint64(0); maxAttempts == Unbounded || i < maxAttempts; i++ {
		b.Nonce = src.Uint64()

		h := b.Hash()
		if SatisfiesDifficulty(h[:], difficulty) {
			return h, true
		}
	}

	return Hash{}, false
}
