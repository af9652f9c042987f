package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a simple fake implementing ssmAPI for tests.
type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
	lastIn *ssm.GetParameterInput
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastIn = in
	return f.getOut, f.getErr
}

func strPtr(s string) *string { return &s }

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("/yachaflex/groq"), Value: strPtr("gsk-123"), Type: types.ParameterTypeSecureString,
	}}}
	client, err := New(api)
	require.NoError(t, err)

	v, err := client.GetParameter(context.Background(), " /yachaflex/groq ")
	require.NoError(t, err)
	require.Equal(t, "gsk-123", v)
	require.Equal(t, "/yachaflex/groq", *api.lastIn.Name)
	require.True(t, *api.lastIn.WithDecryption)
}

func TestGetParameter_MissingValue(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: strPtr("p")}}}
	client, err := New(api)
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetParameter_APIError(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("boom")}
	client, err := New(api)
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.ErrorIs(t, err, api.getErr)
	require.Contains(t, err.Error(), `"p"`)
}

func TestGetParameter_EmptyName(t *testing.T) {
	client, err := New(&fakeAPI{})
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "name is required")
}

type fakeGetter struct {
	val string
	err error
}

func (f fakeGetter) GetParameter(_ context.Context, _ string) (string, error) {
	return f.val, f.err
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name    string
		getter  Getter
		param   string
		want    string
		wantErr string
	}{
		{name: "bare value", getter: fakeGetter{val: "gsk-raw\n"}, param: "/k", want: "gsk-raw"},
		{name: "json token", getter: fakeGetter{val: `{"token":"gsk-json"}`}, param: "/k", want: "gsk-json"},
		{name: "json without token", getter: fakeGetter{val: `{"other":"x"}`}, param: "/k", wantErr: "empty"},
		{name: "malformed json", getter: fakeGetter{val: `{"broken`}, param: "/k", wantErr: "unmarshal"},
		{name: "getter error", getter: fakeGetter{err: errors.New("ssm unavailable")}, param: "/k", wantErr: "ssm unavailable"},
		{name: "nil getter", getter: nil, param: "/k", wantErr: "nil"},
		{name: "blank name", getter: fakeGetter{val: "x"}, param: " ", wantErr: "empty"},
		{name: "blank value", getter: fakeGetter{val: "   "}, param: "/k", wantErr: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveToken(context.Background(), tt.getter, tt.param)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
