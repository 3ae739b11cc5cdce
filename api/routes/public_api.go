package routes

import (
	"socialnet/api/handlers"
	"socialnet/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api/v1/")
	{
		public.POST("auth/register", handlers.Register)
		public.POST("auth/login", handlers.Login)
	}

	private := router.Group("/api/v1/")
	private.Use(middleware.AuthMiddleware())
	{
		private.POST("auth/logout", handlers.Logout)

		private.GET("user/search", handlers.UserSearch)
		private.GET("user/get/:id", handlers.UserGet)
		private.GET("user/relation/:id", handlers.GetRelation)
		private.POST("user/profile", handlers.UpdateProfile)

		// Друзья
		private.POST("friends/request", handlers.SendFriendRequest)
		private.POST("friends/cancel", handlers.CancelFriendRequest)
		private.POST("friends/accept", handlers.AcceptFriendRequest)
		private.POST("friends/delete", handlers.Unfriend)
		private.GET("friends/list", handlers.GetFriends)
		private.GET("friends/requests", handlers.GetPendingRequests)
		private.GET("friends/explore", handlers.ExplorePeople)

		// Посты и лента
		private.POST("posts", handlers.CreatePost)
		private.GET("posts/:id", handlers.GetPost)
		private.POST("posts/:id", handlers.UpdatePost)
		private.DELETE("posts/:id", handlers.DeletePost)
		private.GET("users/:id/posts", handlers.GetUserPosts)
		private.GET("feed", handlers.GetFeed)

		private.GET("ws", handlers.WSHandler)
	}
	return private
}
