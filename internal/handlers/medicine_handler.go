package handlers

import (
	"fmt"
	"log"

	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MedicineHandler handles HTTP requests for the medicine catalog and the
// company-facing inventory.
type MedicineHandler struct {
	service  *services.MedicineService
	validate *validator.Validate
}

// NewMedicineHandler creates a new MedicineHandler.
func NewMedicineHandler(service *services.MedicineService) *MedicineHandler {
	return &MedicineHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the medicine routes. Reads are public; inventory
// mutations require a company or admin token.
func (h *MedicineHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	medicineRoutes := router.Group("/medicines")
	medicineRoutes.Get("/", h.HandleGetMedicines)
	medicineRoutes.Get("/:id", h.HandleGetMedicineByID)

	companyOnly := middleware.RoleRequired(string(models.RoleCompany), string(models.RoleAdmin))
	medicineRoutes.Post("/", authRequired, companyOnly, h.HandleCreateMedicine)
	medicineRoutes.Put("/:id", authRequired, companyOnly, h.HandleUpdateMedicine)
	medicineRoutes.Delete("/:id", authRequired, companyOnly, h.HandleDeleteMedicine)

	router.Get("/inventory", authRequired, companyOnly, h.HandleGetInventory)
}

// HandleGetMedicines retrieves the catalog, optionally filtered by a name
// query (?q=aspirin).
func (h *MedicineHandler) HandleGetMedicines(c *fiber.Ctx) error {
	medicines, err := h.service.SearchMedicines(c.Query("q"))
	if err != nil {
		log.Printf("Error getting medicines: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve medicines",
			"error":   err.Error(),
		})
	}
	return c.JSON(medicines)
}

// HandleGetMedicineByID retrieves a single medicine.
func (h *MedicineHandler) HandleGetMedicineByID(c *fiber.Ctx) error {
	id := c.Params("id")
	medicine, err := h.service.GetMedicineByID(id)
	if err != nil {
		log.Printf("Error getting medicine by ID %s: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not retrieve medicine",
			"error":   err.Error(),
		})
	}
	return c.JSON(medicine)
}

// HandleGetInventory lists the authenticated company's own medicines.
func (h *MedicineHandler) HandleGetInventory(c *fiber.Ctx) error {
	companyID := middleware.UserID(c)
	medicines, err := h.service.GetCompanyInventory(companyID)
	if err != nil {
		log.Printf("Error getting inventory for company %s: %v", companyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve inventory",
			"error":   err.Error(),
		})
	}
	return c.JSON(medicines)
}

// HandleCreateMedicine adds a medicine to the authenticated company's inventory.
func (h *MedicineHandler) HandleCreateMedicine(c *fiber.Ctx) error {
	var medicine models.Medicine
	if err := c.BodyParser(&medicine); err != nil {
		log.Printf("Error parsing create medicine body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// The owning company is always the caller, never client-supplied.
	medicine.CompanyID = middleware.UserID(c)

	if err := h.validate.Struct(medicine); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateMedicine(&medicine); err != nil {
		log.Printf("Error creating medicine: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create medicine",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(medicine)
}

// HandleUpdateMedicine updates one of the authenticated company's medicines.
func (h *MedicineHandler) HandleUpdateMedicine(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := h.service.GetMedicineByID(id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not retrieve medicine",
			"error":   err.Error(),
		})
	}
	if !h.mayManage(c, existing) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not own this medicine",
		})
	}

	var medicine models.Medicine
	if err := c.BodyParser(&medicine); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	medicine.ID = id
	medicine.CompanyID = existing.CompanyID
	medicine.Model = existing.Model

	if err := h.service.UpdateMedicine(&medicine); err != nil {
		log.Printf("Error updating medicine %s: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not update medicine",
			"error":   err.Error(),
		})
	}
	return c.JSON(medicine)
}

// HandleDeleteMedicine removes one of the authenticated company's medicines.
func (h *MedicineHandler) HandleDeleteMedicine(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := h.service.GetMedicineByID(id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not retrieve medicine",
			"error":   err.Error(),
		})
	}
	if !h.mayManage(c, existing) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not own this medicine",
		})
	}

	if err := h.service.DeleteMedicine(id); err != nil {
		log.Printf("Error deleting medicine %s: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not delete medicine",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Medicine %s deleted successfully", id),
	})
}

func (h *MedicineHandler) mayManage(c *fiber.Ctx, medicine *models.Medicine) bool {
	if middleware.Role(c) == string(models.RoleAdmin) {
		return true
	}
	return medicine.CompanyID == middleware.UserID(c)
}
