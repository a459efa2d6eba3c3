package audio

import "math"

// Click tone parameters. Downbeats get a higher, louder burst so the "one"
// is audible inside a running groove.
const (
	beatClickFreq     = 1000.0
	downbeatClickFreq = 1500.0
	beatClickAmp      = 0.6
	downbeatClickAmp  = 0.9

	clickAttackSec = 0.001
	clickDecaySec  = 0.050
)

var (
	beatBurst     = renderBurst(beatClickFreq, beatClickAmp)
	downbeatBurst = renderBurst(downbeatClickFreq, downbeatClickAmp)
)

// renderBurst synthesizes a short mono tone burst: ~1 ms linear attack,
// exponential decay to near-zero by ~50 ms.
func renderBurst(freq, amp float64) []float32 {
	n := int(clickDecaySec * SampleRate)
	attackSamples := clickAttackSec * SampleRate
	attack := int(attackSamples)
	if attack < 1 {
		attack = 1
	}
	// decay constant chosen so the envelope is ~e^-6 (≈0.25%) at the end
	tau := clickDecaySec / 6
	burst := make([]float32, n)
	for i := range burst {
		t := float64(i) / SampleRate
		env := math.Exp(-t / tau)
		if i < attack {
			env *= float64(i) / float64(attack)
		}
		burst[i] = float32(amp * env * math.Sin(2*math.Pi*freq*t))
	}
	return burst
}
