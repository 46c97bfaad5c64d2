package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminGetAllUsers returns all users, admin only
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users, err := h.Repos.Users.List(c.Request.Context())
	if err != nil {
		repoError(c, err, "User")
		return
	}
	if role := c.Query("role"); role != "" {
		filtered := users[:0]
		for _, u := range users {
			if string(u.Role) == role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

func (h *Handler) AdminGetAllRestaurants(c *gin.Context) {
	restaurants, err := h.Repos.Restaurants.ListAll(c.Request.Context())
	if err != nil {
		repoError(c, err, "Restaurant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// AdminGetAllJobs lists translation jobs of every owner with a status summary
func (h *Handler) AdminGetAllJobs(c *gin.Context) {
	jobs, err := h.Repos.Jobs.ListAll(c.Request.Context())
	if err != nil {
		repoError(c, err, "Job")
		return
	}
	summary := map[string]int{}
	pairs := 0
	for _, j := range jobs {
		summary[string(j.Status)]++
		pairs += j.Completed
	}
	c.JSON(http.StatusOK, gin.H{
		"job_summary":   summary,
		"pairs_settled": pairs,
		"count":         len(jobs),
		"jobs":          jobs,
	})
}
