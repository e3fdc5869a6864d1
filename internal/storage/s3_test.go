package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	getErr  error
	putErr  error
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func newFakeStore() (*S3Store, *fakeS3) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	return &S3Store{client: fake, bucket: "photos"}, fake
}

func TestS3StorePutGet(t *testing.T) {
	store, fake := newFakeStore()
	ctx := context.Background()

	ref, err := store.Put(ctx, "generated/u1/j1_variant_2.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "generated/u1/j1_variant_2.jpg", ref)
	assert.Equal(t, "image/jpeg", fake.types[ref])

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got)
}

func TestS3StoreClassifiesErrors(t *testing.T) {
	store, fake := newFakeStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "uploads/missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	fake.putErr = &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce your request rate"}
	_, err = store.Put(ctx, "generated/a.png", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrThrottled)

	fake.getErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	_, err = store.Get(ctx, "uploads/a.jpg")
	assert.ErrorIs(t, err, ErrAccessDenied)

	fake.getErr = errors.New("connection reset")
	_, err = store.Get(ctx, "uploads/a.jpg")
	var objErr *ObjectError
	require.ErrorAs(t, err, &objErr)
	assert.Equal(t, "uploads/a.jpg", objErr.Key)
	assert.False(t, IsNotFound(err))
}
