package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Email string `json:"email" validate:"max=255"`
	Name  string `json:"name" validate:"max=5"`
}

func TestEnglishValidator(t *testing.T) {
	v, err := English()
	require.NoError(t, err, "validator must be built")

	t.Log("valid payload")
	{
		require.NoError(t, v.Validate(&payload{Email: "john@example.com", Name: "John"}))
	}

	t.Log("email has no format rule")
	{
		require.NoError(t, v.Validate(&payload{Email: "not-an-email"}))
	}

	t.Log("invalid payload")
	{
		err := v.Validate(&payload{Email: strings.Repeat("a", 256), Name: "Johnny"})
		require.Error(t, err, "invalid payload must be reported")
		require.IsType(t, &PayloadError{}, err, "error must be payload error")

		pldErr := err.(*PayloadError)
		require.Len(t, pldErr.violations, 2)
		require.Equal(t, "email", pldErr.violations[0].Field, "field must be named after json tag")
		require.Equal(t, "email must be a maximum of 255 characters in length; name must be a maximum of 5 characters in length", pldErr.Error())

		b, jsonErr := json.Marshal(pldErr)
		require.NoError(t, jsonErr)
		require.JSONEq(t, `{"error":"email must be a maximum of 255 characters in length; name must be a maximum of 5 characters in length"}`, string(b))
	}
}
