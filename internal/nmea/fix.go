package nmea

// RMC: Recommended Minimum Specific GNSS Data
// Fields (after the address field):
//
//	0: time (hhmmss.sss)
//	1: status (A=active, V=void)
//	2+: position, speed, course, date
//
// Only the status field matters here; it gates when satellite polling begins.

// FixActive reports whether s is a fix-status sentence declaring an active
// position solution.
func FixActive(s Sentence) bool {
	return s.Type == "RMC" && len(s.Fields) >= 2 && s.Fields[1] == "A"
}
