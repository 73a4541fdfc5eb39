package service

import (
	"errors"

	associationRepo "connectcampus/internal/domain/association/repository"
	studentRepo "connectcampus/internal/domain/student/repository"
	"connectcampus/internal/domain/user/model"
	"connectcampus/pkg/logger"
)

// ErrAuthorUnresolved 会话角色没有对应的作者档案（如管理员发评论）
var ErrAuthorUnresolved = errors.New("session does not resolve to an author profile")

// AuthorService 作者解析与展示。
// 写路径用 Resolve 把会话身份换成 (authorId, authorKind)；
// 读路径用 GetDisplay/BatchDisplay 按 kind 分发到学生/社团表取展示信息。
type AuthorService interface {
	Resolve(userID string, role int) (model.AuthorRef, error)
	GetDisplay(ref model.AuthorRef) model.AuthorDisplay
	BatchDisplay(refs []model.AuthorRef) map[model.AuthorRef]model.AuthorDisplay
}

type authorService struct {
	students     studentRepo.StudentRepository
	associations associationRepo.AssociationRepository
}

func NewAuthorService(students studentRepo.StudentRepository, associations associationRepo.AssociationRepository) AuthorService {
	return &authorService{
		students:     students,
		associations: associations,
	}
}

// Resolve 把会话账号映射到作者引用。客户端传来的 author 字段一律不信。
func (s *authorService) Resolve(userID string, role int) (model.AuthorRef, error) {
	switch role {
	case model.RoleStudent:
		student, err := s.students.GetByUserID(userID)
		if err != nil {
			return model.AuthorRef{}, ErrAuthorUnresolved
		}
		return model.AuthorRef{ID: student.ID, Kind: model.AuthorKindStudent}, nil
	case model.RoleAssociation:
		association, err := s.associations.GetByUserID(userID)
		if err != nil {
			return model.AuthorRef{}, ErrAuthorUnresolved
		}
		return model.AuthorRef{ID: association.ID, Kind: model.AuthorKindAssociation}, nil
	default:
		return model.AuthorRef{}, ErrAuthorUnresolved
	}
}

// GetDisplay 单个作者展示信息。查不到一律给占位，展示路径不报错。
func (s *authorService) GetDisplay(ref model.AuthorRef) model.AuthorDisplay {
	switch ref.Kind {
	case model.AuthorKindStudent:
		student, err := s.students.GetByID(ref.ID)
		if err != nil {
			return model.DeletedAuthorPlaceholder(ref)
		}
		return model.AuthorDisplay{
			ID:        student.ID,
			Kind:      model.AuthorKindStudent,
			Name:      student.Name,
			AvatarURL: student.AvatarURL,
		}
	case model.AuthorKindAssociation:
		association, err := s.associations.GetByID(ref.ID)
		if err != nil {
			return model.DeletedAuthorPlaceholder(ref)
		}
		return model.AuthorDisplay{
			ID:        association.ID,
			Kind:      model.AuthorKindAssociation,
			Name:      association.Name,
			AvatarURL: association.LogoURL,
		}
	default:
		logger.Sugar.Warnf("Unknown author kind %q for author %s", ref.Kind, ref.ID)
		return model.DeletedAuthorPlaceholder(ref)
	}
}

// BatchDisplay 批量取作者展示信息，按 kind 分组后各查一次，避免逐条回表
func (s *authorService) BatchDisplay(refs []model.AuthorRef) map[model.AuthorRef]model.AuthorDisplay {
	result := make(map[model.AuthorRef]model.AuthorDisplay, len(refs))
	if len(refs) == 0 {
		return result
	}

	var studentIDs, associationIDs []string
	for _, ref := range refs {
		if _, seen := result[ref]; seen {
			continue
		}
		// 占位先填上，查到了再覆盖
		result[ref] = model.DeletedAuthorPlaceholder(ref)

		switch ref.Kind {
		case model.AuthorKindStudent:
			studentIDs = append(studentIDs, ref.ID)
		case model.AuthorKindAssociation:
			associationIDs = append(associationIDs, ref.ID)
		default:
			logger.Sugar.Warnf("Unknown author kind %q for author %s", ref.Kind, ref.ID)
		}
	}

	if len(studentIDs) > 0 {
		students, err := s.students.GetByIDs(studentIDs)
		if err != nil {
			logger.Sugar.Warnf("Failed to batch load student authors: %v", err)
		}
		for _, st := range students {
			ref := model.AuthorRef{ID: st.ID, Kind: model.AuthorKindStudent}
			result[ref] = model.AuthorDisplay{
				ID:        st.ID,
				Kind:      model.AuthorKindStudent,
				Name:      st.Name,
				AvatarURL: st.AvatarURL,
			}
		}
	}

	if len(associationIDs) > 0 {
		associations, err := s.associations.GetByIDs(associationIDs)
		if err != nil {
			logger.Sugar.Warnf("Failed to batch load association authors: %v", err)
		}
		for _, as := range associations {
			ref := model.AuthorRef{ID: as.ID, Kind: model.AuthorKindAssociation}
			result[ref] = model.AuthorDisplay{
				ID:        as.ID,
				Kind:      model.AuthorKindAssociation,
				Name:      as.Name,
				AvatarURL: as.LogoURL,
			}
		}
	}

	return result
}
