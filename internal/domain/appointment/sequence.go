package appointment

import "time"

// BuildSequence encadeia um bloco por serviço, na ordem pedida: o fim de um
// é o início do próximo.
func BuildSequence(start time.Time, durations []time.Duration) []Block {
	slots := make([]Block, 0, len(durations))
	cur := start
	for _, d := range durations {
		slots = append(slots, Block{Start: cur, End: cur.Add(d)})
		cur = cur.Add(d)
	}
	return slots
}

// Span devolve o intervalo total coberto pela sequência.
func Span(slots []Block) Block {
	if len(slots) == 0 {
		return Block{}
	}
	return Block{Start: slots[0].Start, End: slots[len(slots)-1].End}
}
