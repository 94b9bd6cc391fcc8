package auth

import "encoding/json"

func containsErrorField(body string) bool {
	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return false
	}
	_, ok := data["error"]
	return ok
}
