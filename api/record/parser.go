package record

// Fields is the key/value mapping of a single raw record.
type Fields map[string]string

// Parse splits a raw record of the form "key:value,key:value" into its fields.
//
// The scan is a single pass with two cursors. A ':' only separates a key from
// its value when a ',' has been seen since the last accepted ':', so values may
// carry unescaped ':' (for example "http://...") and ',' as long as the two do
// not line up as ",key:". Malformed input never fails; it yields whatever
// fields the heuristic recovers. A duplicate key keeps the last value.
func Parse(raw string) Fields {
	fields := Fields{}

	lastColon, lastComma := -1, -1
	key := ""
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ',':
			lastComma = i
		case ':':
			if lastComma < lastColon {
				continue
			}
			if key != "" {
				fields[key] = raw[lastColon+1 : lastComma]
			}
			key = raw[lastComma+1 : i]
			lastColon = i
		}
	}

	// Trailing field; nothing to emit when no ':' was ever accepted.
	if key != "" {
		fields[key] = raw[lastColon+1:]
	}

	return fields
}
