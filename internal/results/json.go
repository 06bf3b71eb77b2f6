package results

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloat encodes NaN and infinities as the strings "NaN", "+Inf" and "-Inf",
// which plain encoding/json refuses to write.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = unquoted
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type rowJSON struct {
	TestID TestID     `json:"test_id"`
	P1     jsonFloat  `json:"p1"`
	P2     *jsonFloat `json:"p2,omitempty"`
	Ref    *jsonFloat `json:"ref,omitempty"`
	TAIB   jsonFloat  `json:"taib"`
	Delta  *jsonFloat `json:"delta,omitempty"`
	Sigma  jsonFloat  `json:"sigma"`
	Aux1   *jsonFloat `json:"aux1,omitempty"`
	Aux2   *jsonFloat `json:"aux2,omitempty"`
}

func toJSONFloat(p *float64) *jsonFloat {
	if p == nil {
		return nil
	}
	v := jsonFloat(*p)
	return &v
}

func fromJSONFloat(p *jsonFloat) *float64 {
	if p == nil {
		return nil
	}
	v := float64(*p)
	return &v
}

func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowJSON{
		TestID: r.TestID,
		P1:     jsonFloat(r.P1),
		P2:     toJSONFloat(r.P2),
		Ref:    toJSONFloat(r.Ref),
		TAIB:   jsonFloat(r.TAIB),
		Delta:  toJSONFloat(r.Delta),
		Sigma:  jsonFloat(r.Sigma),
		Aux1:   toJSONFloat(r.Aux1),
		Aux2:   toJSONFloat(r.Aux2),
	})
}

func (r *Row) UnmarshalJSON(b []byte) error {
	var raw rowJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Row{
		TestID: raw.TestID,
		P1:     float64(raw.P1),
		P2:     fromJSONFloat(raw.P2),
		Ref:    fromJSONFloat(raw.Ref),
		TAIB:   float64(raw.TAIB),
		Delta:  fromJSONFloat(raw.Delta),
		Sigma:  float64(raw.Sigma),
		Aux1:   fromJSONFloat(raw.Aux1),
		Aux2:   fromJSONFloat(raw.Aux2),
	}
	return nil
}
