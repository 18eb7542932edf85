package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	objects map[string]string
	getErr  error
	putErr  error

	LastBucket      string
	LastKey         string
	LastContentType string
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: map[string]string{}}
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.LastBucket = aws.ToString(in.Bucket)
	f.LastKey = aws.ToString(in.Key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[f.LastKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.LastBucket = aws.ToString(in.Bucket)
	f.LastKey = aws.ToString(in.Key)
	f.LastContentType = aws.ToString(in.ContentType)
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[f.LastKey] = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Repository_PutThenGet(t *testing.T) {
	api := newFakeObjectAPI()
	repo := NewS3Repository(api, "eclinic")
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "users", "u-1", map[string]any{"admin": true}))
	assert.Equal(t, "eclinic", api.LastBucket)
	assert.Equal(t, "users/u-1.json", api.LastKey)
	assert.Equal(t, "application/json", api.LastContentType)

	doc, err := repo.Get(ctx, "users", "u-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"admin": true}, doc)
}

func TestS3Repository_PutNilStoresEmptyObject(t *testing.T) {
	api := newFakeObjectAPI()
	repo := NewS3Repository(api, "b")

	require.NoError(t, repo.Put(context.Background(), "users", "u-1", nil))
	assert.Equal(t, "{}", api.objects["users/u-1.json"])
}

func TestS3Repository_GetMissing(t *testing.T) {
	repo := NewS3Repository(newFakeObjectAPI(), "b")

	_, err := repo.Get(context.Background(), "users", "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3Repository_Errors(t *testing.T) {
	api := newFakeObjectAPI()
	api.getErr = errors.New("timeout")
	api.putErr = errors.New("denied")
	repo := NewS3Repository(api, "b")

	_, err := repo.Get(context.Background(), "users", "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 get: timeout")
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	err = repo.Put(context.Background(), "users", "u-1", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 put: denied")
}

func TestS3Repository_GetCorruptDocument(t *testing.T) {
	api := newFakeObjectAPI()
	api.objects["users/u-1.json"] = "not json"
	repo := NewS3Repository(api, "b")

	_, err := repo.Get(context.Background(), "users", "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode document users/u-1.json")
}

func TestNewS3RepositoryFromSettings(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		assert.Equal(t, "minio-secret", creds.SecretAccessKey)
		return aws.Config{Region: lo.Region}, nil
	}

	fake := newFakeObjectAPI()
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectAPI {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
		assert.True(t, opts.UsePathStyle)
		return fake
	}

	repo, err := NewS3RepositoryFromSettings(context.Background(), S3Settings{
		Region:       "us-east-1",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "eclinic",
	})
	require.NoError(t, err)
	assert.Same(t, fake, repo.api)
	assert.Equal(t, "eclinic", repo.bucket)
}

func TestNewS3RepositoryFromSettings_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3RepositoryFromSettings(context.Background(), S3Settings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aws config: no region")
}
