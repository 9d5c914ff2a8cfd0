package cart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3API is a mock implementation of S3API.
type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3API) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func objectKey(key string) interface{} {
	return mock.MatchedBy(func(in interface{}) bool {
		switch v := in.(type) {
		case *s3.GetObjectInput:
			return *v.Key == key && *v.Bucket == "bucket"
		case *s3.PutObjectInput:
			return *v.Key == key && *v.Bucket == "bucket"
		case *s3.DeleteObjectInput:
			return *v.Key == key && *v.Bucket == "bucket"
		}
		return false
	})
}

func TestS3Slot_Get(t *testing.T) {
	tests := []struct {
		name          string
		output        *s3.GetObjectOutput
		err           error
		expectedData  string
		expectedError error
		expectError   bool
	}{
		{
			name:         "Object exists",
			output:       &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(`[]`)))},
			expectedData: `[]`,
		},
		{
			name:          "Missing object",
			err:           &types.NoSuchKey{},
			expectedError: ErrSlotEmpty,
			expectError:   true,
		},
		{
			name:        "Access denied",
			err:         errors.New("AccessDenied"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockS3API)
			if tt.output != nil {
				api.On("GetObject", mock.Anything, objectKey("carts/cart:s1")).Return(tt.output, nil)
			} else {
				api.On("GetObject", mock.Anything, objectKey("carts/cart:s1")).Return(nil, tt.err)
			}
			slot := NewS3Slot(api, "bucket", "carts/", zerolog.Nop())

			data, err := slot.Get(context.Background(), "cart:s1")

			if tt.expectError {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.NotErrorIs(t, err, ErrSlotEmpty)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedData, string(data))
			api.AssertExpectations(t)
		})
	}
}

func TestS3Slot_PutAndDelete(t *testing.T) {
	api := new(MockS3API)
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Key == "carts/cart:s1" && *in.ContentType == "application/json" && string(body) == `[]`
	})).Return(&s3.PutObjectOutput{}, nil)
	api.On("DeleteObject", mock.Anything, objectKey("carts/cart:s1")).Return(&s3.DeleteObjectOutput{}, nil)
	slot := NewS3Slot(api, "bucket", "carts/", zerolog.Nop())

	require.NoError(t, slot.Put(context.Background(), "cart:s1", []byte(`[]`)))
	require.NoError(t, slot.Delete(context.Background(), "cart:s1"))

	api.AssertExpectations(t)
}

func TestS3Slot_PutFailure(t *testing.T) {
	api := new(MockS3API)
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("SlowDown"))
	slot := NewS3Slot(api, "bucket", "carts/", zerolog.Nop())

	err := slot.Put(context.Background(), "cart:s1", []byte(`[]`))

	assert.ErrorContains(t, err, "failed to put object to S3")
}
