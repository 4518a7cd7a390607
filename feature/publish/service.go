package publish

import (
	"context"
	"fmt"
	"time"

	"item-mirror/core/server"

	"go.uber.org/zap"
)

// Result is the outcome of a publish.
type Result string

const (
	ResultNoChanges     Result = "no changes"
	ResultNothingStaged Result = "nothing staged"
	ResultPushed        Result = "pushed"
)

// Service commits and pushes the published folder.
type Service struct {
	cfg    server.Config
	git    GitRunner
	lock   *Lock
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a publish service.
func NewService(cfg server.Config, git GitRunner, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		git:    git,
		lock:   NewLock(cfg.LockPath),
		logger: logger,
		now:    time.Now,
	}
}

// Publish commits and pushes pending changes under the publish path. It
// returns ErrBusy without touching the repository when a publish is running.
func (s *Service) Publish(ctx context.Context) (Result, error) {
	release, err := s.lock.TryAcquire()
	if err != nil {
		return "", err
	}
	defer release()

	dir := s.cfg.RepoDir
	status, err := s.git.Run(ctx, dir, "status", "--porcelain", "--untracked-files=all", "--", s.cfg.PublishPath)
	if err != nil {
		return "", err
	}
	if status == "" {
		s.logger.Info("No changes in publish path", zap.String("path", s.cfg.PublishPath))
		return ResultNoChanges, nil
	}
	s.logger.Debug("git status", zap.String("status", status))

	if _, err := s.git.Run(ctx, dir, "add", s.cfg.PublishPath+"/"); err != nil {
		return "", err
	}

	staged, err := s.git.Run(ctx, dir, "diff", "--cached", "--name-only")
	if err != nil {
		return "", err
	}
	if staged == "" {
		s.logger.Info("Nothing staged after git add")
		return ResultNothingStaged, nil
	}

	msg := fmt.Sprintf("Auto: update %s @%s", s.cfg.PublishPath, s.now().Format(time.DateTime))
	if _, err := s.git.Run(ctx, dir, "commit", "-m", msg); err != nil {
		return "", err
	}
	if _, err := s.git.Run(ctx, dir, "push", s.cfg.Remote, s.cfg.Branch); err != nil {
		return "", err
	}
	s.logger.Info("Pushed", zap.String("remote", s.cfg.Remote), zap.String("branch", s.cfg.Branch))
	return ResultPushed, nil
}
