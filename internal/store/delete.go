package store

import (
	"context"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

// DeleteUserData removes the user's row together with every owned listing
// and, through those, their additional images and comments. Counts of
// affected resources are captured before deletion. The returned blob keys
// belong to image files whose removal is the caller's post-commit,
// best-effort concern.
func (s *Store) DeleteUserData(ctx context.Context, userID domain.UserID) (map[string]int64, []string, error) {
	deleted := map[string]int64{}
	var blobKeys []string

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		count := func(label string, query *gorm.DB) error {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return err
			}
			deleted[label] = total
			return nil
		}

		if err := count("users", db.Model(&domain.User{}).Where("id = ?", userID)); err != nil {
			return err
		}
		if err := count("bbs", db.Model(&domain.Bb{}).Where("author_id = ?", userID)); err != nil {
			return err
		}

		var bbs []domain.Bb
		if err := db.Where("author_id = ?", userID).Find(&bbs).Error; err != nil {
			return err
		}
		bbIDs := make([]uint, 0, len(bbs))
		for _, bb := range bbs {
			bbIDs = append(bbIDs, bb.ID)
			if bb.Image != "" {
				blobKeys = append(blobKeys, bb.Image)
			}
		}

		if len(bbIDs) > 0 {
			if err := count("additionalImages", db.Model(&domain.AdditionalImage{}).Where("bb_id IN ?", bbIDs)); err != nil {
				return err
			}
			if err := count("comments", db.Model(&domain.Comment{}).Where("bb_id IN ?", bbIDs)); err != nil {
				return err
			}

			var images []domain.AdditionalImage
			if err := db.Where("bb_id IN ?", bbIDs).Find(&images).Error; err != nil {
				return err
			}
			for _, img := range images {
				blobKeys = append(blobKeys, img.Image)
			}

			// Children go first so a crash mid-transaction can never leave
			// image rows pointing at a deleted listing.
			if err := db.Where("bb_id IN ?", bbIDs).Delete(&domain.AdditionalImage{}).Error; err != nil {
				return err
			}
			if err := db.Where("bb_id IN ?", bbIDs).Delete(&domain.Comment{}).Error; err != nil {
				return err
			}
			if err := db.Where("author_id = ?", userID).Delete(&domain.Bb{}).Error; err != nil {
				return err
			}
		}

		return db.Where("id = ?", userID).Delete(&domain.User{}).Error
	})

	return deleted, blobKeys, err
}
