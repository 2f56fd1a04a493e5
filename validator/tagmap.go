package validator

var tagMap = map[string]string{
	"required":      "required",
	"omitempty":     "optional",
	"hostname_port": "invalid_address",
	"ip":            "invalid_ip",
	"max":           "too_long",
	"min":           "too_short",
	"gt":            "too_small",
	"lt":            "too_large",
	"gte":           "too_small_or_equal",
	"lte":           "too_large_or_equal",
	"len":           "invalid_length",
	"oneof":         "invalid_choice",
	"dive":          "invalid_element",
	"boolean":       "invalid_boolean",
	"numeric":       "only_numbers_allowed",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
