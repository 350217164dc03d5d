package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type VerdictTestSuite struct {
	suite.Suite
}

func TestVerdictSuite(t *testing.T) {
	suite.Run(t, new(VerdictTestSuite))
}

func (suite *VerdictTestSuite) TestVerdictConstants() {
	suite.Equal(Verdict("buy"), VerdictBuy)
	suite.Equal(Verdict("sell"), VerdictSell)
	suite.Equal(Verdict("hold"), VerdictHold)
}

func (suite *VerdictTestSuite) TestLabels() {
	suite.Equal("COMPRA", VerdictBuy.Label())
	suite.Equal("VENTA", VerdictSell.Label())
	suite.Equal("MANTENER", VerdictHold.Label())
}

func (suite *VerdictTestSuite) TestLabelUnknownVerdict() {
	suite.Equal("other", Verdict("other").Label())
}

func (suite *VerdictTestSuite) TestRecommendationYAML() {
	rec := Recommendation{
		Symbol:  "AAPL",
		Time:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Verdict: VerdictBuy,
		Score:   2,
		Reasons: []string{
			"Tendencia alcista (Precio > SMA200 > SMA50)",
			"Golden Cross (SMA50 > SMA200)",
		},
	}

	data, err := yaml.Marshal(rec)
	suite.Require().NoError(err)

	var decoded Recommendation
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))

	suite.Equal(rec.Symbol, decoded.Symbol)
	suite.Equal(rec.Verdict, decoded.Verdict)
	suite.Equal(rec.Score, decoded.Score)
	suite.Equal(rec.Reasons, decoded.Reasons)
	suite.True(rec.Time.Equal(decoded.Time))
}
