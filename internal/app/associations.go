/**
 * @description
 * Association and committee-roster management. A sub-admin maintains the
 * roster for their own association; the super-admin reads all associations for
 * the AGM export.
 */

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// Association fetches one association with its roster.
func (s *Service) Association(ctx context.Context, assocID uuid.UUID) (*domain.Association, error) {
	return s.repo.FindAssociationByID(ctx, assocID)
}

// Associations lists all associations.
func (s *Service) Associations(ctx context.Context) ([]domain.Association, error) {
	return s.repo.ListAssociations(ctx)
}

// SaveCommitteeRoster creates or replaces an association record together with
// its committee roster. Blank roster rows are dropped.
func (s *Service) SaveCommitteeRoster(ctx context.Context, assocID uuid.UUID, name, location string, committee []domain.CommitteeMember) (*domain.Association, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: association name", ErrMissingField)
	}

	cleaned := make([]domain.CommitteeMember, 0, len(committee))
	for _, member := range committee {
		if strings.TrimSpace(member.Name) == "" && strings.TrimSpace(member.Title) == "" {
			continue
		}
		cleaned = append(cleaned, member)
	}

	assoc := &domain.Association{
		ID:        assocID,
		Name:      strings.TrimSpace(name),
		Location:  strings.TrimSpace(location),
		Committee: cleaned,
	}
	if err := s.repo.UpsertAssociation(ctx, assoc); err != nil {
		return nil, fmt.Errorf("failed to save association: %w", err)
	}
	return assoc, nil
}
