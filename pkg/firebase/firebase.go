package firebase

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	cloudstorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase storage client. Identity is handled by
// the local JWT layer; Firebase serves as the blob storage backend only.
type App struct {
	StorageClient *storage.Client
	bucketName    string
}

// InitFirebase initializes the Firebase application and its storage client
func InitFirebase(ctx context.Context, credentialsPath, storageBucket string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	log.Println("Firebase app and storage client initialized successfully!")
	return &App{
		StorageClient: storageClient,
		bucketName:    storageBucket,
	}, nil
}

// Upload stores a file in the default bucket and returns its public URL.
// Satisfies the handlers.Uploader contract.
func (a *App) Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	bucket, err := a.StorageClient.DefaultBucket()
	if err != nil {
		return "", fmt.Errorf("resolve default bucket: %w", err)
	}

	object := bucket.Object(objectName)
	writer := object.NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("upload object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", objectName, err)
	}

	if err := object.ACL().Set(ctx, cloudstorage.AllUsers, cloudstorage.RoleReader); err != nil {
		return "", fmt.Errorf("publish object %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", a.bucketName, objectName), nil
}
