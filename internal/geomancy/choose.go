package geomancy

// Chosen maps each direction to the satellite elected for it. A direction
// with no classified candidate has no entry.
type Chosen map[Direction]Classified

// Choose reduces classified satellites to at most one per direction,
// keeping a running best per quadrant: lowest deviation wins; on a
// deviation tie the higher SNR wins; if SNR ties too, the record seen
// later wins. When cands comes from an unordered table walk that final
// tie-break is not reproducible between runs; the wire protocol defines
// no satellite ordering, so this is inherent, not hidden.
func Choose(cands []Classified) Chosen {
	ch := make(Chosen, len(Directions))
	for _, c := range cands {
		best, ok := ch[c.Direction]
		if !ok || c.Deviation < best.Deviation ||
			(c.Deviation == best.Deviation && c.Sat.SNR >= best.Sat.SNR) {
			ch[c.Direction] = c
		}
	}
	return ch
}
