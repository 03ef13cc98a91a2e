package pinecone

// sanitizeMetadata keeps only values the wire format accepts: strings,
// numbers, booleans and string arrays. Everything else, nils included, is
// dropped silently so one unstorable value never fails a whole write.
func sanitizeMetadata(metadata map[string]interface{}) map[string]interface{} {
	if len(metadata) == 0 {
		return nil
	}

	out := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			out[key] = v
		case []string:
			out[key] = v
		case []interface{}:
			strs := make([]string, 0, len(v))
			onlyStrings := true
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					onlyStrings = false
					break
				}
				strs = append(strs, s)
			}
			if onlyStrings {
				out[key] = strs
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
