// Package delivery writes rendered export files to the downstream ERP's
// file store over SFTP.
package delivery

import (
	"context"
	"fmt"
	"log"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"chlsync/internal/config"
)

// File is one rendered artifact to place in the target directory.
type File struct {
	Name    string
	Content string
}

// Agent delivers batches of export files over one authenticated session.
type Agent struct {
	config config.SFTPConfig
}

func NewAgent(cfg config.SFTPConfig) *Agent {
	return &Agent{config: cfg}
}

// Deliver opens one SSH session and one SFTP subsession for the whole
// batch and writes each file in turn, closing it before the next. Both
// sessions are released on every exit path, subsession first. A connect or
// auth failure aborts before any write; a write failure aborts the batch
// but leaves previously written files on the remote store.
func (a *Agent) Deliver(ctx context.Context, files []File) error {
	addr := fmt.Sprintf("%s:%d", a.config.Host, a.config.Port)
	sshClient, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User: a.config.Username,
		Auth: []ssh.AuthMethod{ssh.Password(a.config.Password)},
		// The ERP host sits on a private network; key pinning is handled
		// at the network layer, matching the previous integration setup.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer sshClient.Close()

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("failed to open sftp subsession: %w", err)
	}
	defer sftpClient.Close()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		remotePath := path.Join(a.config.TargetDir, file.Name)
		if err := writeFile(sftpClient, remotePath, file.Content); err != nil {
			return fmt.Errorf("failed to deliver %s: %w", remotePath, err)
		}
		log.Printf("Delivered %s (%d bytes)", remotePath, len(file.Content))
	}

	return nil
}

func writeFile(client *sftp.Client, remotePath, content string) error {
	f, err := client.Create(remotePath)
	if err != nil {
		return err
	}
	if _, err := f.Write([]byte(content)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
