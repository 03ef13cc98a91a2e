package vectorstore

// ChunkDocuments splits docs into fixed-size groups for batched writes.
// A size of zero or less falls back to DefaultBatchSize.
func ChunkDocuments(docs []DocumentRecord, size int) [][]DocumentRecord {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(docs) == 0 {
		return nil
	}

	chunks := make([][]DocumentRecord, 0, (len(docs)+size-1)/size)
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}

// InjectDocumentText returns a metadata copy carrying text under the
// reserved DocumentTextKey, for backends without a native text field. Empty
// text stores no reserved key. The input map is never mutated.
func InjectDocumentText(metadata map[string]interface{}, text string) map[string]interface{} {
	out := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		if k == DocumentTextKey {
			continue
		}
		out[k] = v
	}
	if text != "" {
		out[DocumentTextKey] = text
	}
	return out
}

// ExtractDocumentText splits the reserved text key back out of stored
// metadata, returning the text and a metadata copy without the reserved
// key. The reserved key must not leak to callers.
func ExtractDocumentText(metadata map[string]interface{}) (string, map[string]interface{}) {
	if metadata == nil {
		return "", nil
	}

	text := ""
	if raw, ok := metadata[DocumentTextKey]; ok {
		if s, ok := raw.(string); ok {
			text = s
		}
	}

	out := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		if k == DocumentTextKey {
			continue
		}
		out[k] = v
	}
	return text, out
}
