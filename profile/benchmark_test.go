package profile

import (
	"encoding/json"
	"testing"
)

const benchmarkPayload = `{
  "data": {
    "id": "c2ac35c6-aa8c-11ed-afa1-0242ac120002",
    "email": "grace@example.com",
    "firstName": "Grace",
    "lastName": "Hopper",
    "phoneNumber": "+1 555 0100",
    "education": [{"schoolName": "Yale", "majorName": "Mathematics", "graduationYear": 1934}],
    "employment": [],
    "address": {"line1": "1 Navy Way", "line2": null, "city": "Arlington"},
    "socialProfiles": {"gitHub": null, "linkedIn": "ghopper"},
    "roles": ["hacker"]
  }
}`

func decodeBenchmarkPayload(b *testing.B) any {
	b.Helper()
	var raw any
	if err := json.Unmarshal([]byte(benchmarkPayload), &raw); err != nil {
		b.Fatalf("decode: %v", err)
	}
	return raw
}

func BenchmarkNormalize(b *testing.B) {
	raw := decodeBenchmarkPayload(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = Normalize(raw)
	}
}

func BenchmarkProjectRaw(b *testing.B) {
	raw := decodeBenchmarkPayload(b)
	p := MustProjector()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		id := p.ProjectRaw(raw, "data")
		if !id.HasUID() {
			b.Fatal("expected uid")
		}
	}
}
