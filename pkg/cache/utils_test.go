package cache

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CacheUtilsTestSuite struct {
	suite.Suite
}

func (suite *CacheUtilsTestSuite) TestGenerateKey() {
	kg := NewKeyGenerator("entitlement")
	suite.Equal("entitlement:cust-1:api_access", kg.GenerateKey("cust-1", "api_access"))
}

func (suite *CacheUtilsTestSuite) TestGenerateKeyNoParts() {
	kg := NewKeyGenerator("entitlement")
	suite.Equal("entitlement", kg.GenerateKey())
}

func (suite *CacheUtilsTestSuite) TestSerializeDeserializeRoundTrip() {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := payload{Name: "seats", Count: 3}

	data, err := Serialize(in)
	suite.NoError(err)
	suite.NotEmpty(data)

	var out payload
	suite.NoError(Deserialize(data, &out))
	suite.Equal(in, out)
}

func (suite *CacheUtilsTestSuite) TestDeserializeInvalidJSON() {
	var out map[string]interface{}
	suite.Error(Deserialize([]byte("{not json}"), &out))
}

func (suite *CacheUtilsTestSuite) TestIsValidCacheKey() {
	suite.True(IsValidCacheKey("entitlement:cust-1:api_access"))
	suite.False(IsValidCacheKey(""))
	suite.False(IsValidCacheKey("has a space"))
}

func (suite *CacheUtilsTestSuite) TestExtractKeyParts() {
	suite.Equal([]string{"entitlement", "cust-1", "api_access"}, ExtractKeyParts("entitlement:cust-1:api_access"))
	suite.Nil(ExtractKeyParts(""))
}

func TestCacheUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(CacheUtilsTestSuite))
}
