package service

import (
	"fmt"
	"strconv"
	"strings"
)

// The normalizers below reshape loosely-typed LLM output before it is decoded
// into the strict response types. They never fail: values they recognize are
// coerced, everything else is left for strict validation to reject. Non-map
// entries inside list fields are tolerated on purpose; rejecting them here
// would mask which part of the payload was malformed.

// NormalizeDishPayload coerces type drift in a dish-list payload. A non-list
// "dishes" value passes through unchanged so validation fails with the original
// shape intact.
func NormalizeDishPayload(data map[string]interface{}) map[string]interface{} {
	dishes, ok := data["dishes"].([]interface{})
	if !ok {
		return data
	}

	for _, entry := range dishes {
		dish, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		if v, present := dish["cooking_time"]; present && v != nil {
			dish["cooking_time"] = coerceString(v)
		}

		items, ok := dish["missing_items"].([]interface{})
		if !ok {
			continue
		}
		for _, it := range items {
			item, ok := it.(map[string]interface{})
			if !ok {
				continue
			}
			if v, present := item["cost_est"]; present && v != nil {
				item["cost_est"] = coerceString(v)
			}
		}
	}

	return data
}

// NormalizeRecipePayload coerces type drift in a recipe-detail payload so the
// result satisfies the strict recipe schema's type constraints. Semantic
// plausibility is the caller's problem.
func NormalizeRecipePayload(data map[string]interface{}) map[string]interface{} {
	for _, field := range []string{"prep_time_minutes", "cook_time_minutes", "servings"} {
		if n, ok := coerceInt(data[field]); ok {
			data[field] = n
		} else {
			data[field] = 0
		}
	}

	// Unlike the other numeric fields, null distinguishes "unknown" from zero calories.
	if n, ok := coerceInt(data["calories_per_serving"]); ok {
		data["calories_per_serving"] = n
	} else {
		data["calories_per_serving"] = nil
	}

	if ingredients, ok := data["ingredients"].([]interface{}); ok {
		for _, entry := range ingredients {
			ingredient, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			if v, present := ingredient["quantity"]; present && v != nil {
				ingredient["quantity"] = coerceString(v)
			}
		}
	}

	if steps, ok := data["steps"].([]interface{}); ok {
		for i, entry := range steps {
			step, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			if n, ok := coerceInt(step["step_number"]); ok {
				step["step_number"] = n
			} else {
				step["step_number"] = i + 1
			}
			if v, present := step["timer_seconds"]; present && v != nil {
				if n, ok := coerceInt(v); ok {
					step["timer_seconds"] = n
				} else {
					step["timer_seconds"] = nil
				}
			}
		}
	}

	if _, ok := data["chef_tips"].([]interface{}); !ok {
		data["chef_tips"] = []interface{}{}
	}

	data["difficulty"] = normalizeDifficulty(data["difficulty"])

	return data
}

// normalizeDifficulty title-cases the value and constrains it to the closed
// set {Easy, Medium, Hard}; anything else defaults to Easy.
func normalizeDifficulty(value interface{}) string {
	s, ok := value.(string)
	if !ok {
		return "Easy"
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "Easy"
	}
	titled := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	switch titled {
	case "Easy", "Medium", "Hard":
		return titled
	}
	return "Easy"
}

// coerceString renders a scalar the way the strict schema expects strings,
// without scientific notation for integral numbers.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// coerceInt attempts a best-effort integer parse. Floats truncate, numeric
// strings parse, everything else fails.
func coerceInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
