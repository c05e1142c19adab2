package services

import (
	"chatline_backend/internal/repositories"
	"chatline_backend/internal/services/dto"
	"chatline_backend/pkg/apperrors"
)

type UserService interface {
	Search(query, callerID string) ([]dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.ProfileUpdateRequest) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

const searchLimit = 20

func (s *UserServiceImpl) Search(query, callerID string) ([]dto.UserResponse, error) {
	if query == "" {
		return []dto.UserResponse{}, nil
	}

	users, err := s.userRepo.Search(query, callerID, searchLimit)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	results := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, *UserToResponse(&users[i]))
	}
	return results, nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.ProfileUpdateRequest) error {
	updates := map[string]interface{}{}
	if req.DisplayName != nil && *req.DisplayName != "" {
		updates["display_name"] = *req.DisplayName
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return apperrors.PersistenceError(err)
	}
	return nil
}
