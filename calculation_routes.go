package main

import (
	"errors"
	"net/http"

	"bitbucket.org/mmdatafocus/calc_backend/models"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func bindNewCalculation(c *gin.Context) (*models.NewCalculation, bool) {
	var input models.NewCalculation
	if err := c.ShouldBindJSON(&input); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && verrs != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return nil, false
	}
	return &input, true
}

func createCalculationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok := bindNewCalculation(c)
		if !ok {
			return
		}

		calc, err := models.CreateCalculation(c.Request.Context(), input)
		if err != nil {
			if errors.Is(err, utils.ErrorDivisionByZero) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, calc.Response())
	}
}

func listCalculationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.GetAllCalculations(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func getCalculationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		calc, err := models.GetCalculation(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "calculation not found"})
			return
		}
		c.JSON(http.StatusOK, calc.Response())
	}
}

func updateCalculationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok := bindNewCalculation(c)
		if !ok {
			return
		}

		calc, err := models.UpdateCalculation(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrorRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "calculation not found"})
			case errors.Is(err, utils.ErrorDivisionByZero):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, calc.Response())
	}
}

func deleteCalculationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := models.DeleteCalculation(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "calculation not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
