package beep

var disabled bool

func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Shutter: two quick high clicks
	shutterFreq   = 1500
	shutterVolume = 0.45
	shutterDecay  = 90
	shutterGap    = 0.03

	// Done (OCR text copied): single mid tick
	doneFreq   = 900
	doneVolume = 0.5
	doneDecay  = 40

	// Error: low pitch double-beep
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)
