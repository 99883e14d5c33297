package service

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/utils"
	"golang.org/x/sync/errgroup"

	"github.com/nxlauncher/launcher-admin-system/types"
)

// PublishArchive stores the game archive and stamps the record with the
// archive's size. The dedicated endpoint exists because archives are
// multi-gigabyte and get their own deadline.
func (s *siteService) PublishArchive(ctx context.Context, gameID string, fileProvider MultipartFileProvider) (*types.Game, error) {
	steamID := utils.SteamIDFromContext(ctx)
	if steamID == "" {
		return nil, perr("no user associated with request", http.StatusUnauthorized)
	}

	ext := strings.ToLower(filepath.Ext(fileProvider.Filename()))
	if ext != ".rar" && ext != ".zip" {
		return nil, perr("unsupported file extension", http.StatusUnsupportedMediaType)
	}

	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	game, err := s.dal.GetGame(dbs, gameID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, perr("game not found", http.StatusNotFound)
		}
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	if game.ArchiveType != strings.TrimPrefix(ext, ".") {
		return nil, perr(fmt.Sprintf("archive type mismatch, record expects '%s'", game.ArchiveType), http.StatusBadRequest)
	}

	file, err := fileProvider.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open received file")
	}
	defer file.Close()

	utils.LogCtx(ctx).Debugf("received a file '%s' - %d bytes", fileProvider.Filename(), fileProvider.Size())

	if err := os.MkdirAll(s.archivesDir, os.ModeDir); err != nil {
		return nil, fmt.Errorf("failed to make directory structure")
	}

	destinationFilePath := fmt.Sprintf("%s/%s%s", s.archivesDir, gameID, ext)

	destination, err := os.Create(destinationFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file")
	}
	defer func() { utils.LogIfErr(ctx, destination.Close()) }()

	utils.LogCtx(ctx).Debugf("copying archive to '%s'...", destinationFilePath)

	md5sum := md5.New()
	sha256sum := sha256.New()
	multiWriter := io.MultiWriter(destination, sha256sum, md5sum)

	nBytes, err := io.Copy(multiWriter, file)
	if err != nil {
		utils.LogIfErr(ctx, os.Remove(destinationFilePath))
		return nil, fmt.Errorf("failed to copy file to destination")
	}
	if nBytes != fileProvider.Size() {
		utils.LogIfErr(ctx, os.Remove(destinationFilePath))
		return nil, fmt.Errorf("incorrect number of bytes copied to destination")
	}

	utils.LogCtx(ctx).Debugf("md5:%s sha256:%s",
		hex.EncodeToString(md5sum.Sum(nil)), hex.EncodeToString(sha256sum.Sum(nil)))

	game.SizeBytes = strconv.FormatInt(nBytes, 10)
	game.SizeLabel = sizeLabel(nBytes)
	game.UpdatedAt = s.clock.Now()

	if err := s.dal.StoreGame(dbs, game); err != nil {
		utils.LogIfErr(ctx, os.Remove(destinationFilePath))
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogIfErr(ctx, os.Remove(destinationFilePath))
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return game, nil
}

// ReceiveGalleryImages saves uploaded gallery images in parallel and returns
// their public URLs in the upload order.
func (s *siteService) ReceiveGalleryImages(ctx context.Context, fileProviders []MultipartFileProvider) ([]string, error) {
	steamID := utils.SteamIDFromContext(ctx)
	if steamID == "" {
		return nil, perr("no user associated with request", http.StatusUnauthorized)
	}
	if len(fileProviders) == 0 {
		return nil, perr("no files received", http.StatusBadRequest)
	}

	for _, fileProvider := range fileProviders {
		if !isImageExtension(filepath.Ext(fileProvider.Filename())) {
			return nil, perr(fmt.Sprintf("unsupported image extension on '%s'", fileProvider.Filename()), http.StatusUnsupportedMediaType)
		}
	}

	if err := os.MkdirAll(s.galleryDir, os.ModeDir); err != nil {
		return nil, fmt.Errorf("failed to make directory structure")
	}

	urls := make([]string, len(fileProviders))
	var mu sync.Mutex
	savedPaths := make([]string, 0, len(fileProviders))

	errs, ectx := errgroup.WithContext(ctx)

	for i, fileProvider := range fileProviders {
		i, fileProvider := i, fileProvider
		errs.Go(func() error {
			utils.LogCtx(ectx).Debugf("saving gallery image '%s' in goroutine...", fileProvider.Filename())

			file, err := fileProvider.Open()
			if err != nil {
				return fmt.Errorf("failed to open received file")
			}
			defer file.Close()

			ext := strings.ToLower(filepath.Ext(fileProvider.Filename()))
			destinationFilename := s.randomStringProvider.RandomString(32) + ext
			destinationFilePath := fmt.Sprintf("%s/%s", s.galleryDir, destinationFilename)

			destination, err := os.Create(destinationFilePath)
			if err != nil {
				return fmt.Errorf("failed to create destination file")
			}
			defer func() { utils.LogIfErr(ectx, destination.Close()) }()

			mu.Lock()
			savedPaths = append(savedPaths, destinationFilePath)
			mu.Unlock()

			nBytes, err := io.Copy(destination, file)
			if err != nil {
				return fmt.Errorf("failed to copy file to destination")
			}
			if nBytes != fileProvider.Size() {
				return fmt.Errorf("incorrect number of bytes copied to destination")
			}

			urls[i] = s.publicBaseURL + "/gallery/" + destinationFilename
			return nil
		})
	}

	if err := errs.Wait(); err != nil {
		for _, p := range savedPaths {
			utils.LogCtx(ctx).Debugf("cleaning up file '%s'...", p)
			utils.LogIfErr(ctx, os.Remove(p))
		}
		return nil, err
	}

	return urls, nil
}
