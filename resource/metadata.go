package resource

// MetadataKey is a normalized metadata key: lowercase [a-z0-9_]+.
type MetadataKey string

// ParseMetadataKey validates s against the normalized key shape.
func ParseMetadataKey(s string) (MetadataKey, error) {
	if s == "" {
		return "", invalidValue("metadata_key", "must not be empty")
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return "", invalidValue("metadata_key", "must match [a-z0-9_]+")
		}
	}
	return MetadataKey(s), nil
}
