// Package spec holds the HDX-SFX wire constants shared by the bank
// container, the opus stream format and the control socket.
package spec

const (
	// === IDENTITY & VERSIONING ===
	Version    = "1.0.0"
	ServerName = "HDX-SFX"

	// === MAGIC NUMBERS ===
	BankMagic       = "HDXSFX01" // sound bank container
	OpusStreamMagic = "HDXO"     // length-prefixed opus frame stream
	SealMagic       = "HDXSEAL1" // AES-GCM sealed single file

	// === SECURITY & ENGINE SPECS ===
	NonceSize     = 12
	KDFIterations = 4096
	KeySize       = 32
	SampleRate    = 48000
	Channels      = 2
	FrameSize     = 20  // ms per opus frame
	BufferMs      = 100 // speaker buffer
	MaxFrameBytes = 1500

	// === TLV TAGS ===
	Salt      = "SALT"
	BankName  = "NAME" // bank display name
	SoundFile = "SNDF" // uint16 key length + key + payload
	Sealed    = "SEAL" // present when SNDF payloads are sealed

	// === CONTROL SOCKET ===
	DefaultSocket = "/tmp/hdx-sfx.sock"
	EventPrefix   = "EVENT"
)

// FrameSamples is the number of samples per channel in one opus frame.
const FrameSamples = SampleRate * FrameSize / 1000
