package service

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
)

var ErrFileNotFound = errors.New("file not found")

type FileService interface {
	RegisterFile(originalName, category, mimeType string, size int64, uploadedBy uuid.UUID) (*model.StoredFile, error)
	GetAllFiles() ([]model.StoredFile, error)
	GetFile(id uuid.UUID) (*model.StoredFile, error)
	DeleteFile(id uuid.UUID) error
	UploadDir() string
}

type fileService struct {
	fileRepo  repository.FileRepository
	uploadDir string
}

func NewFileService(fileRepo repository.FileRepository, uploadDir string) FileService {
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	os.MkdirAll(uploadDir, 0o755)
	return &fileService{fileRepo: fileRepo, uploadDir: uploadDir}
}

func (s *fileService) UploadDir() string {
	return s.uploadDir
}

// RegisterFile reserves a unique on-disk name and records the registry row.
// The caller writes the actual bytes to the returned Path.
func (s *fileService) RegisterFile(originalName, category, mimeType string, size int64, uploadedBy uuid.UUID) (*model.StoredFile, error) {
	if category == "" {
		category = "general"
	}

	storedName := uuid.New().String() + filepath.Ext(originalName)
	file := &model.StoredFile{
		Name:         storedName,
		OriginalName: originalName,
		Category:     category,
		Size:         size,
		MimeType:     mimeType,
		Path:         filepath.Join(s.uploadDir, storedName),
		UploadedBy:   &uploadedBy,
	}

	if err := s.fileRepo.Create(file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) GetAllFiles() ([]model.StoredFile, error) {
	return s.fileRepo.FindAll()
}

func (s *fileService) GetFile(id uuid.UUID) (*model.StoredFile, error) {
	file, err := s.fileRepo.FindByID(id)
	if err != nil {
		return nil, ErrFileNotFound
	}
	return file, nil
}

func (s *fileService) DeleteFile(id uuid.UUID) error {
	file, err := s.fileRepo.FindByID(id)
	if err != nil {
		return ErrFileNotFound
	}

	if err := s.fileRepo.Delete(id); err != nil {
		return err
	}

	// Registry row is authoritative; a missing blob is not an error
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
