package sftp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"busfee/internal/pkg/config"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 15 * time.Second

// DialFunc opens an SFTP session. The returned closer releases the
// underlying transport once the client is closed.
type DialFunc func(ctx context.Context) (*sftp.Client, io.Closer, error)

// Uploader pushes generated files to the school office SFTP drop.
type Uploader struct {
	remoteDir string
	dial      DialFunc
}

func NewUploader(cfg config.SFTPConfig) (*Uploader, error) {
	hostKeyCallback, err := hostKeyCallback(cfg.HostKey)
	if err != nil {
		return nil, err
	}
	sshConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return NewUploaderWithDialer(cfg.RemoteDir, func(ctx context.Context) (*sftp.Client, io.Closer, error) {
		conn, err := ssh.Dial("tcp", addr, sshConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", log_messages.ErrorDialingSFTP, err)
		}
		client, err := sftp.NewClient(conn)
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("%s: %w", log_messages.ErrorCreatingSFTP, err)
		}
		return client, conn, nil
	}), nil
}

func NewUploaderWithDialer(remoteDir string, dial DialFunc) *Uploader {
	return &Uploader{remoteDir: remoteDir, dial: dial}
}

func hostKeyCallback(hostKey string) (ssh.HostKeyCallback, error) {
	if hostKey == "" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // host key pinning is opt-in via sftp.host_key
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(hostKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", log_messages.ErrorParsingHostKey, err)
	}
	return ssh.FixedHostKey(key), nil
}

// Upload writes data to <remoteDir>/<name>, creating the directory when
// missing, and returns the remote path.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	client, conn, err := u.dial(ctx)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err)
		return "", err
	}
	defer func() {
		_ = client.Close()
		if conn != nil {
			_ = conn.Close()
		}
	}()

	remoteDir := u.remoteDir
	if remoteDir == "" {
		remoteDir = "."
	}
	if _, err := client.Stat(remoteDir); os.IsNotExist(err) {
		if err := client.MkdirAll(remoteDir); err != nil {
			logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, slog.String("dir", remoteDir))
			return "", fmt.Errorf("failed to create directory on SFTP server: %w", err)
		}
	}

	remotePath := path.Join(remoteDir, name)
	remoteFile, err := client.Create(remotePath)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, slog.String("path", remotePath))
		return "", fmt.Errorf("could not create remote file: %w", err)
	}
	defer remoteFile.Close()

	if _, err := remoteFile.Write(data); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, slog.String("path", remotePath))
		return "", fmt.Errorf("could not write remote file: %w", err)
	}

	logger.CtxInfo(ctx, log_messages.UploadedToSFTP, slog.String("path", remotePath), slog.Int("bytes", len(data)))
	return remotePath, nil
}
