package match

// Reservation targets of an allocation, as fractions of the allocated students.
var QuotaRequirements = map[string]float64{
	"rural":  0.25,
	"scst":   0.225,
	"female": 0.30,
	"ews":    0.10,
}

// Allocated is a placed student as seen by the quota check.
type Allocated struct {
	Category string `json:"category"`
	Gender   string `json:"gender"`
	AreaType string `json:"areaType"`
}

// QuotaStatus reports one reservation bucket.
type QuotaStatus struct {
	Required  float64 `json:"required"`
	Actual    float64 `json:"actual"`
	Compliant bool    `json:"compliant"`
	Count     int     `json:"count"`
}

func inQuota(bucket string, a Allocated) bool {
	switch bucket {
	case "rural":
		return a.AreaType == "rural"
	case "scst":
		return a.Category == "sc" || a.Category == "st"
	case "female":
		return a.Gender == "female"
	case "ews":
		return a.Category == "ews"
	}
	return false
}

// CheckQuotaCompliance measures an allocation against QuotaRequirements. An empty allocation
// complies with nothing.
func CheckQuotaCompliance(allocation []Allocated) map[string]QuotaStatus {
	out := make(map[string]QuotaStatus, len(QuotaRequirements))
	for bucket, required := range QuotaRequirements {
		count := 0
		for _, a := range allocation {
			if inQuota(bucket, a) {
				count++
			}
		}
		var actual float64
		if len(allocation) > 0 {
			actual = float64(count) / float64(len(allocation))
		}
		out[bucket] = QuotaStatus{
			Required:  required,
			Actual:    actual,
			Compliant: len(allocation) > 0 && actual >= required,
			Count:     count,
		}
	}
	return out
}
