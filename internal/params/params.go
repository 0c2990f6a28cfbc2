package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// BytesScalar is the length of a serialized scalar mod the curve order.
	BytesScalar = 32
	// BytesField is the length of a serialized field element mod the curve prime.
	BytesField = 32
	// BytesPoint is the length of an uncompressed point: 0x04 ‖ X ‖ Y.
	BytesPoint = 1 + 2*BytesField

	// BytesSalt is the length of the salt binding an order commit hash to its reveal.
	BytesSalt = SecBytes

	// HashToCurveMaxCounter bounds the try-and-increment search for a generator.
	// Each counter fails independently with probability ≈ 1/2, so exhausting
	// this bound has probability ≈ 2⁻²⁵⁶.
	HashToCurveMaxCounter = 256
)
