package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"ragbot_backend/internal/model"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/util"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gorm.io/gorm"
)

// StorageService 文档桶代理：上传/列举/删除对象并触发知识库摄取任务。
// 凭证由管理员在运行期修改，因此客户端按服务实例构建，绝不跨请求共享。
type StorageService struct {
	config *model.AppConfig
}

func NewStorageService(configRepo *repository.AppConfigRepository) (*StorageService, error) {
	cfg, err := configRepo.Find()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &StorageService{config: cfg}, nil
}

type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

type IngestionJob struct {
	JobID     string     `json:"job_id"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

func (s *StorageService) s3Client() (*minio.Client, error) {
	if s.config == nil || s.config.AWSAccessKeyID == "" {
		return nil, util.NewConfigurationError("AWS credentials")
	}

	region := s.config.AWSRegion
	if region == "" {
		region = model.DefaultAWSRegion
	}

	endpoint := fmt.Sprintf("s3.%s.amazonaws.com", region)
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.config.AWSAccessKeyID, s.config.AWSSecretAccessKey, ""),
		Secure: true,
		Region: region,
	})
}

func (s *StorageService) bucket() (string, error) {
	if s.config == nil || s.config.S3BucketName == "" {
		return "", util.NewConfigurationError("S3 Bucket Name")
	}
	return s.config.S3BucketName, nil
}

// Upload 顺序上传，首个失败即中止；已上传的对象保留，不回滚
func (s *StorageService) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}

	client, err := s.s3Client()
	if err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return uploaded, &util.UpstreamError{Op: "open upload " + fh.Filename, Err: err}
		}

		_, err = client.PutObject(ctx, bucket, fh.Filename, f, fh.Size, minio.PutObjectOptions{
			ContentType: fh.Header.Get("Content-Type"),
		})
		f.Close()
		if err != nil {
			return uploaded, &util.UpstreamError{Op: "upload " + fh.Filename, Err: err}
		}

		uploaded = append(uploaded, fh.Filename)
	}

	return uploaded, nil
}

func (s *StorageService) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}

	client, err := s.s3Client()
	if err != nil {
		return nil, err
	}

	objects := []ObjectInfo{}
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, &util.UpstreamError{Op: "list objects", Err: obj.Err}
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

func (s *StorageService) DeleteObject(ctx context.Context, key string) error {
	bucket, err := s.bucket()
	if err != nil {
		return err
	}

	client, err := s.s3Client()
	if err != nil {
		return err
	}

	if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &util.UpstreamError{Op: "delete object " + key, Err: err}
	}
	return nil
}

// StartIngestionJob 触发知识库对数据源的异步重建索引
func (s *StorageService) StartIngestionJob(ctx context.Context) (*IngestionJob, error) {
	if s.config == nil || s.config.AWSAccessKeyID == "" {
		return nil, util.NewConfigurationError("AWS credentials")
	}
	if s.config.KBID == "" || s.config.DataSourceID == "" {
		return nil, util.NewConfigurationError("KB ID or Data Source ID")
	}

	region := s.config.AWSRegion
	if region == "" {
		region = model.DefaultAWSRegion
	}

	client := bedrockagent.New(bedrockagent.Options{
		Region:      region,
		Credentials: awscreds.NewStaticCredentialsProvider(s.config.AWSAccessKeyID, s.config.AWSSecretAccessKey, ""),
	})

	out, err := client.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(s.config.KBID),
		DataSourceId:    aws.String(s.config.DataSourceID),
	})
	if err != nil {
		return nil, &util.UpstreamError{Op: "start ingestion job", Err: err}
	}

	job := &IngestionJob{}
	if out.IngestionJob != nil {
		job.JobID = aws.ToString(out.IngestionJob.IngestionJobId)
		job.Status = string(out.IngestionJob.Status)
		job.StartedAt = out.IngestionJob.StartedAt
	}
	return job, nil
}
